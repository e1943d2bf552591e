package checkoutdto

type CheckoutOutput struct {
	OrderID     uint
	OrderNumber string
	SessionID   string
	RedirectURL string
}

type PaymentStatusOutput struct {
	OrderID        uint
	OrderStatus    string
	ProviderStatus string
}
