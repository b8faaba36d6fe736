package views

// Default body of write endpoints without a result
type Default struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// DefaultSuccess default success view
var DefaultSuccess = Default{
	Code:    0,
	Message: "success",
}

// Sweep sweep result
type Sweep struct {
	Removed   int `json:"removed"`
	Remaining int `json:"remaining"`
}
