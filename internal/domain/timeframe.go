package domain

type TimeFrame string

const (
	TimeFrameDiario  TimeFrame = "diario"
	TimeFrameSemanal TimeFrame = "semanal"
	TimeFrameMensual TimeFrame = "mensual"
	TimeFrameRango   TimeFrame = "rango"
)

// FixedTimeFrames son las ventanas que no dependen de un rango elegido por el usuario
var FixedTimeFrames = []TimeFrame{TimeFrameDiario, TimeFrameSemanal, TimeFrameMensual}

func (tf TimeFrame) Valid() bool {
	switch tf {
	case TimeFrameDiario, TimeFrameSemanal, TimeFrameMensual, TimeFrameRango:
		return true
	}
	return false
}

// Title devuelve el nombre de la ventana con mayúscula inicial, usado como nombre de hoja
func (tf TimeFrame) Title() string {
	switch tf {
	case TimeFrameDiario:
		return "Diario"
	case TimeFrameSemanal:
		return "Semanal"
	case TimeFrameMensual:
		return "Mensual"
	case TimeFrameRango:
		return "Rango"
	}
	return string(tf)
}

// CustomRange son los límites YYYY-MM-DD del rango elegido, vacíos si no se enviaron
type CustomRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (r CustomRange) Complete() bool {
	return r.Start != "" && r.End != ""
}
