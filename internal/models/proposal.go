package models

// LineItem is a single billable row of a proposal.
type LineItem struct {
	Description string  `json:"description"    validate:"required"`
	Quantity    float64 `json:"quantity"       validate:"gt=0"`
	Rate        float64 `json:"rate"           validate:"gte=0"`
	Unit        string  `json:"unit,omitempty"`
}

// Tax is a percentage applied to the discounted subtotal.
type Tax struct {
	Name    string  `json:"name"    validate:"required"`
	Percent float64 `json:"percent" validate:"gte=0,lte=100"`
}

// Proposal is a commercial offer sent to a client. Discount is an absolute amount
// subtracted from the subtotal before taxes. Note is rich text.
type Proposal struct {
	Number        string     `json:"number"                  validate:"required"`
	Subject       string     `json:"subject"`
	ClientName    string     `json:"clientName"              validate:"required"`
	ClientAddress string     `json:"clientAddress,omitempty"`
	ClientEmail   string     `json:"clientEmail,omitempty"   validate:"omitempty,email"`
	Date          string     `json:"date"                    validate:"required,datetime=2006-01-02"`
	OpenTill      string     `json:"openTill,omitempty"      validate:"omitempty,datetime=2006-01-02"`
	Currency      string     `json:"currency,omitempty"`
	Items         []LineItem `json:"items"                   validate:"required,min=1,dive"`
	Taxes         []Tax      `json:"taxes,omitempty"         validate:"dive"`
	Discount      float64    `json:"discount,omitempty"      validate:"gte=0"`
	Note          string     `json:"note,omitempty"`
}
