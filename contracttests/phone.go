package contracttests

import (
	"net/http"

	"github.com/stretchr/testify/assert"

	"github.com/setianjay/api-contract-tests/framework"
	"github.com/setianjay/api-contract-tests/request"
	"github.com/setianjay/api-contract-tests/servicedef"
)

const catalogSize = 13

// PhoneSuite checks the object catalog API at baseURL.
func PhoneSuite(baseURL string) framework.Suite {
	return framework.Suite{
		Name:    "PhoneApiTest",
		BaseURL: baseURL,
		Tests: []framework.TestCase{
			{Name: "testGetAllObject", Action: getAllObjects},
			{Name: "testGetObjectById", Action: getObjectByID},
		},
	}
}

func getAllObjects(t *framework.T) {
	t.Execute(request.Descriptor{Method: request.GET, Path: "/objects"})

	t.RequireStatus(http.StatusOK)
	t.RequireSchema(objectListSchema)
	phones := framework.ReadResponse[[]servicedef.Phone](t)
	assert.Len(t, phones, catalogSize)
}

func getObjectByID(t *framework.T) {
	expected := servicedef.Phone{
		ID:   1,
		Name: "Google Pixel 6 Pro",
		Data: &servicedef.Specification{Color: "Cloudy White", Capacity: "128 GB"},
	}
	t.Execute(request.Descriptor{
		Method:     request.GET,
		Path:       "/objects/{id}",
		PathParams: map[string]interface{}{"id": 1},
	})

	t.RequireStatus(http.StatusOK)
	t.RequireSchema(objectSchema)
	actual := framework.ReadResponse[servicedef.Phone](t)
	t.RequireValid(actual)
	assert.Equal(t, expected, actual)
}

// All returns every suite, pointed at the given base addresses.
func All(bookingURL, objectsURL string) []framework.Suite {
	return []framework.Suite{
		BookingSuite(bookingURL),
		PhoneSuite(objectsURL),
	}
}
