package servicedef

// Credentials is the body of POST /auth.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token  string `json:"token,omitempty" validate:"required"`
	Reason string `json:"reason,omitempty"`
}

type BookingDates struct {
	Checkin  string `json:"checkin" validate:"required,datetime=2006-01-02"`
	Checkout string `json:"checkout" validate:"required,datetime=2006-01-02"`
}

// Booking is used both as a request body and as a decoded response. Nil fields are
// left out of the encoded body, so a Booking with only some fields set is a valid
// partial update.
type Booking struct {
	Firstname       *string       `json:"firstname,omitempty" validate:"omitempty,min=1"`
	Lastname        *string       `json:"lastname,omitempty" validate:"omitempty,min=1"`
	TotalPrice      *int          `json:"totalprice,omitempty" validate:"omitempty,gte=0"`
	DepositPaid     *bool         `json:"depositpaid,omitempty"`
	BookingDates    *BookingDates `json:"bookingdates,omitempty" validate:"omitempty"`
	AdditionalNeeds *string       `json:"additionalneeds,omitempty"`
}

type BookingCreated struct {
	BookingID int      `json:"bookingid" validate:"required,gt=0"`
	Booking   *Booking `json:"booking" validate:"required"`
}

type BookingID struct {
	BookingID int `json:"bookingid" validate:"required,gt=0"`
}

// BookingFilter holds the optional query parameters of GET /booking.
type BookingFilter struct {
	Firstname string
	Lastname  string
	Checkin   string
	Checkout  string
}

// Query returns the non-empty filter values keyed by query parameter name.
func (f BookingFilter) Query() map[string]interface{} {
	q := make(map[string]interface{})
	for k, v := range map[string]string{
		"firstname": f.Firstname,
		"lastname":  f.Lastname,
		"checkin":   f.Checkin,
		"checkout":  f.Checkout,
	} {
		if v != "" {
			q[k] = v
		}
	}
	return q
}

func String(s string) *string { return &s }

func Int(n int) *int { return &n }

func Bool(b bool) *bool { return &b }
