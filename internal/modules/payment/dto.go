package payment

type CreatePaymentResponse struct {
	PaymentToken string `json:"paymentToken"`
	PaymentURL   string `json:"paymentUrl"`
}

// NotificationPayload is the gateway's webhook body. Only the fields the
// reconciliation needs; the raw body is stored alongside.
type NotificationPayload struct {
	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	FraudStatus       string `json:"fraud_status"`
}
