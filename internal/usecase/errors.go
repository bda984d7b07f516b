package usecase

import (
	"errors"
	"strings"
)

// DomainError: erro causado pela entrada do cliente (HTTP 400).
type DomainError struct {
	Code    string
	Message string
	Fields  []ValidationError
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError: falha em planilha, CMS ou banco (HTTP 500).
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

// ConfigError: alguma integração obrigatória não foi configurada.
// A mensagem nunca carrega valores, só o nome das variáveis.
type ConfigError struct {
	Component string
	Missing   []string
}

func (e *ConfigError) Error() string {
	msg := e.Component + " not configured"
	if len(e.Missing) > 0 {
		msg += " (missing " + strings.Join(e.Missing, ", ") + ")"
	}
	return msg
}

func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
