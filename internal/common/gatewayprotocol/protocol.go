// Package gatewayprotocol holds the wire types of the WATA H2H payment API.
package gatewayprotocol

const (
	Opened   LinkStatus = "opened"
	Closed   LinkStatus = "closed"
	Declined LinkStatus = "declined"
)

// LinkStatus is a payment link status as reported by the gateway,
// normalized to lower case. The gateway only moves a link forward:
// opened -> closed or opened -> declined, never back.
type LinkStatus string

type CreateLinkRequest struct {
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Description string  `json:"description"`
	OrderID     string  `json:"orderId"`
}

type PaymentLink struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Status string `json:"status"`
}
