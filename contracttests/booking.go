package contracttests

import (
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/setianjay/api-contract-tests/framework"
	"github.com/setianjay/api-contract-tests/request"
	"github.com/setianjay/api-contract-tests/servicedef"
)

const (
	authUsername = "admin"
	authPassword = "password123"
)

type bookingSuite struct {
	bookingID int
}

// BookingSuite checks the booking API at baseURL: it obtains an auth token, then creates,
// updates, partially updates, reads, finds by name and deletes one booking, and finally
// lists bookings.
func BookingSuite(baseURL string) framework.Suite {
	s := &bookingSuite{}
	return framework.Suite{
		Name:    "BookingApiTest",
		BaseURL: baseURL,
		Hooks: framework.Hooks{
			BeforeSuite: s.createToken,
			AfterSuite: func(*framework.T) error {
				s.bookingID = 0
				return nil
			},
		},
		Tests: []framework.TestCase{
			{Name: "testCreateBooking", Order: 1, Action: s.createBooking},
			{Name: "testUpdateBooking", Order: 2, Action: s.updateBooking},
			{Name: "testPartialUpdateBooking", Order: 3, Action: s.partialUpdateBooking},
			{Name: "testGetBooking", Order: 4, Action: s.getBooking},
			{Name: "testGetBookingIdsByName", Order: 5, Action: s.findBookingByName},
			{Name: "testDeleteBooking", Order: 6, Action: s.deleteBooking},
			{Name: "testGetBookingId", Order: 7, Action: s.listBookingIDs},
		},
	}
}

func (s *bookingSuite) createToken(t *framework.T) error {
	t.Execute(request.Descriptor{
		Method: request.POST,
		Path:   "/auth",
		Body:   servicedef.Credentials{Username: authUsername, Password: authPassword},
		Headers: map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
			"User-Agent":   request.DefaultUserAgent,
		},
	})
	t.RequireStatus(http.StatusOK)
	auth := framework.ReadResponse[servicedef.AuthResponse](t)
	t.RequireValid(auth)
	t.Session().SetToken(auth.Token)
	return nil
}

func (s *bookingSuite) idParam() map[string]interface{} {
	return map[string]interface{}{"id": s.bookingID}
}

func (s *bookingSuite) createBooking(t *framework.T) {
	body := servicedef.Booking{
		Firstname:   servicedef.String("Vinsmoke"),
		Lastname:    servicedef.String("Sanji"),
		TotalPrice:  servicedef.Int(100000),
		DepositPaid: servicedef.Bool(true),
		BookingDates: &servicedef.BookingDates{
			Checkin:  "2025-09-16",
			Checkout: "2025-09-17",
		},
		AdditionalNeeds: servicedef.String("Professional Chef"),
	}
	t.Execute(request.Descriptor{Method: request.POST, Path: "/booking", Body: body})

	t.RequireStatus(http.StatusOK)
	t.RequireSchema(bookingCreatedSchema)
	created := framework.ReadResponse[servicedef.BookingCreated](t)
	t.RequireValid(created)
	assert.Equal(t, &body, created.Booking)
	s.bookingID = created.BookingID
}

func (s *bookingSuite) updateBooking(t *framework.T) {
	body := servicedef.Booking{
		Firstname:   servicedef.String("Tony"),
		Lastname:    servicedef.String("Chopper"),
		TotalPrice:  servicedef.Int(200000),
		DepositPaid: servicedef.Bool(false),
		BookingDates: &servicedef.BookingDates{
			Checkin:  "2025-09-17",
			Checkout: "2025-09-18",
		},
		AdditionalNeeds: servicedef.String("Professional Doctor"),
	}
	t.Execute(request.Descriptor{
		Method:     request.PUT,
		Path:       "/booking/{id}",
		Body:       body,
		Headers:    request.TokenCookie(t.Session().Token()),
		PathParams: s.idParam(),
	})

	t.RequireStatus(http.StatusOK)
	t.RequireSchema(bookingSchema)
	updated := framework.ReadResponse[servicedef.Booking](t)
	assert.Equal(t, body, updated)
}

func (s *bookingSuite) partialUpdateBooking(t *framework.T) {
	body := servicedef.Booking{
		Firstname:  servicedef.String("Nico"),
		Lastname:   servicedef.String("Robin"),
		TotalPrice: servicedef.Int(400000),
	}
	t.Execute(request.Descriptor{
		Method:     request.PATCH,
		Path:       "/booking/{id}",
		Body:       body,
		Headers:    request.TokenCookie(t.Session().Token()),
		PathParams: s.idParam(),
	})

	t.RequireStatus(http.StatusOK)
	updated := framework.ReadResponse[servicedef.Booking](t)
	assert.Equal(t, body.Firstname, updated.Firstname)
	assert.Equal(t, body.Lastname, updated.Lastname)
	assert.Equal(t, body.TotalPrice, updated.TotalPrice)
}

func (s *bookingSuite) getBooking(t *framework.T) {
	t.Execute(request.Descriptor{Method: request.GET, Path: "/booking/{id}", PathParams: s.idParam()})

	t.RequireStatus(http.StatusOK)
	t.RequireSchema(bookingSchema)
	booking := framework.ReadResponse[servicedef.Booking](t)
	t.RequireValid(booking)
}

func (s *bookingSuite) findBookingByName(t *framework.T) {
	filter := servicedef.BookingFilter{Firstname: "Nico", Lastname: "Robin"}
	t.Execute(request.Descriptor{Method: request.GET, Path: "/booking", Query: filter.Query()})

	t.RequireStatus(http.StatusOK)
	t.RequireSchema(bookingIDsSchema)
	ids := framework.ReadResponse[[]servicedef.BookingID](t)
	assert.Contains(t, ids, servicedef.BookingID{BookingID: s.bookingID})
}

func (s *bookingSuite) deleteBooking(t *framework.T) {
	resp := t.Execute(request.Descriptor{
		Method:     request.DELETE,
		Path:       "/booking/{id}",
		Headers:    request.TokenCookie(t.Session().Token()),
		PathParams: s.idParam(),
	})

	t.RequireStatus(http.StatusCreated)
	assert.Equal(t, "Created", resp.String())
}

func (s *bookingSuite) listBookingIDs(t *framework.T) {
	t.Execute(request.Descriptor{Method: request.GET, Path: "/booking"})

	t.RequireStatus(http.StatusOK)
	t.RequireSchema(bookingIDsSchema)
	ids := framework.ReadResponse[[]servicedef.BookingID](t)
	require.NotEmpty(t, ids)
}
