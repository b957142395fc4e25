package repository

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

var (
	ErrNotFound  = errors.New("registro no encontrado")
	ErrDuplicate = errors.New("registro duplicado")
	ErrReference = errors.New("referencia inexistente")
)

// códigos de Postgres para violaciones de restricciones
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation
}

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}
