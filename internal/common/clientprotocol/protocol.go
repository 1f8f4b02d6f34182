// Package clientprotocol holds the JSON types served to the web front end.
package clientprotocol

const (
	Pending   PaymentStatus = "pending"
	Completed PaymentStatus = "completed"
	Error     PaymentStatus = "error"
)

type PaymentStatus string

type CreatePaymentRequest struct {
	RubAmount   float64 `json:"rub_amount"`
	UserAddress string  `json:"user_address"`
}

type CreatePaymentResponse struct {
	URL       string `json:"url"`
	PaymentID string `json:"id"`
	OrderID   string `json:"order_id"`
}

type CheckPaymentResponse struct {
	Status    PaymentStatus `json:"status"`
	Tx        string        `json:"tx,omitempty"`
	TonAmount float64       `json:"ton_amount,omitempty"`
	Message   string        `json:"message,omitempty"`
}

type HealthResponse struct {
	Status  string  `json:"status"`
	Version string  `json:"version"`
	TonRate float64 `json:"ton_rate"`
}

type PriceResponse struct {
	Price float64 `json:"price"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
