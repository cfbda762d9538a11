package processsubmission

type Input struct {
	FormID  string                 `json:"formId"`
	Payload map[string]interface{} `json:"payload"`
}

type Output struct {
	Status     string                 `json:"status"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	HTTPStatus int                    `json:"httpStatus"`
}
