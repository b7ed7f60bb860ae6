package utils

// CustomError digunakan untuk error dengan status code yang spesifik
type CustomError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	// Data carries extra detail for the client, such as field errors.
	Data interface{} `json:"data,omitempty"`
}

func (e *CustomError) Error() string {
	return e.Message
}

// NewCustomError Fungsi helper untuk membuat CustomError
func NewCustomError(statusCode int, message string) *CustomError {
	return &CustomError{StatusCode: statusCode, Message: message}
}

// WithData returns a copy of the error that also carries data.
func (e *CustomError) WithData(data interface{}) *CustomError {
	return &CustomError{StatusCode: e.StatusCode, Message: e.Message, Data: data}
}
