package domain

// TransactionStatus tracks the settlement state of a payment.
type TransactionStatus string

const (
	// TransactionVerified marks a signature-verified payment.
	TransactionVerified TransactionStatus = "verified"
	// TransactionRefunded marks a refunded payment.
	TransactionRefunded TransactionStatus = "refunded"
)

// Transaction is a payment record, created only after the provider signature
// has been verified.
type Transaction struct {
	Record
	OrderID   string            `json:"order_id"`
	PaymentID string            `json:"payment_id"`
	Signature string            `json:"signature"`
	Amount    int64             `json:"amount"`
	Currency  string            `json:"currency"`
	UserID    string            `json:"user_id"`
	Status    TransactionStatus `json:"status"`
}
