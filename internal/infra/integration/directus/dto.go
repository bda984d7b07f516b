package directus

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/nickppf/nickppf-api/internal/entity"
)

// CodeRecordNotUnique é o extensions.code que o Directus usa para violação de unicidade.
const CodeRecordNotUnique = "RECORD_NOT_UNIQUE"

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type idResponse struct {
	Data struct {
		ID json.RawMessage `json:"id"`
	} `json:"data"`
}

type userRecord struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	Phone     string `json:"phone_number"`
	Role      any    `json:"role"`
}

type roleRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type createUserRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	Phone     string `json:"phone_number,omitempty"`
	Role      string `json:"role,omitempty"`
}

type errorResponse struct {
	Errors []struct {
		Message    string `json:"message"`
		Extensions struct {
			Code string `json:"code"`
		} `json:"extensions"`
	} `json:"errors"`
}

// APIError carrega o primeiro erro do envelope {"errors": [...]} do Directus.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("directus: %s (status %d, code %s)", e.Message, e.StatusCode, e.Code)
	}
	return fmt.Sprintf("directus: %s (status %d)", e.Message, e.StatusCode)
}

// Is traduz o erro do Directus para os sentinelas do domínio.
// O Directus responde 403 para item inexistente quando o token não enxerga a coleção toda.
func (e *APIError) Is(target error) bool {
	switch target {
	case entity.ErrClientAlreadyExists:
		return e.Code == CodeRecordNotUnique
	case entity.ErrItemNotFound:
		return e.StatusCode == http.StatusNotFound || e.StatusCode == http.StatusForbidden
	}
	return false
}

func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var envelope errorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Errors) > 0 {
		apiErr.Message = envelope.Errors[0].Message
		apiErr.Code = envelope.Errors[0].Extensions.Code
		return apiErr
	}

	apiErr.Message = strings.TrimSpace(string(body))
	if apiErr.Message == "" {
		apiErr.Message = "unexpected response"
	}
	return apiErr
}

// idString aceita id numérico ou string (coleções com PK integer ou uuid).
func idString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
