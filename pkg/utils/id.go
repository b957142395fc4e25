package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const (
	characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	idLength   = 21
)

func GenerateID() (string, error) {
	return gonanoid.Generate(characters, idLength)
}

// GeneratePassword genera la contraseña temporal con la que se crea el usuario en el
// proveedor de identidad. Incluye símbolos y mayúsculas para cumplir su política.
func GeneratePassword() (string, error) {
	body, err := gonanoid.Generate(characters, 16)
	if err != nil {
		return "", err
	}
	return body + "Aa1!", nil
}
