package checkoutdto

type CreateCheckoutInput struct {
	CustomerParams
	LineItems []LineItemParams
	Total     float64
	// AccountID is the authenticated caller, zero for guests.
	AccountID uint
}

type CustomerParams struct {
	Name    string
	Phone   string
	Email   string
	Address string
	Comment string
}

type LineItemParams struct {
	Name        string
	Description string
	UnitPrice   float64
	Quantity    int
}
