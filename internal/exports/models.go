package exports

import "errors"

const (
	FormatPDF = "pdf"
	FormatCSV = "csv"
)

var (
	ErrPlanNotFound      = errors.New("meal plan not found")
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// Export is a rendered plan. Data is set in local mode, URL when the file was uploaded.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
	URL         string
	ExpiresIn   int
}

// LinkResponse is returned when the export lives in object storage.
type LinkResponse struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in,omitempty"`
}

// ErrorResponse: формат ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
