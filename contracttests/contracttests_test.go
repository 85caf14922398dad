package contracttests

import (
	"net/http/httptest"
	"testing"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/setianjay/api-contract-tests/diag"
	"github.com/setianjay/api-contract-tests/framework"
	"github.com/setianjay/api-contract-tests/mockapi"
	"github.com/setianjay/api-contract-tests/request"
	"github.com/setianjay/api-contract-tests/servicedef"
)

type failureCollector struct {
	errors []string
}

func (f *failureCollector) TestStarted(framework.TestID) {}
func (f *failureCollector) TestError(id framework.TestID, err error) {
	f.errors = append(f.errors, id.String()+": "+err.Error())
}
func (f *failureCollector) TestFinished(framework.TestID, bool, diag.CapturedOutput) {}
func (f *failureCollector) TestSkipped(framework.TestID, string)                     {}

func withMockAPI(t *testing.T, options []mockapi.Option, action func(baseURL string, env framework.Environment, collector *failureCollector)) {
	httphelpers.WithServer(mockapi.New(nil, options...), func(server *httptest.Server) {
		collector := &failureCollector{}
		action(server.URL, framework.Environment{TestLogger: collector}, collector)
	})
}

func TestAllSuitesPassAgainstMockAPI(t *testing.T) {
	withMockAPI(t, nil, func(baseURL string, env framework.Environment, collector *failureCollector) {
		results := framework.RunSuites(env, All(baseURL, baseURL)...)
		require.True(t, results.OK(), "%v", collector.errors)
		assert.Len(t, results.Tests, 9)
		for _, r := range results.Tests {
			assert.False(t, r.Skipped)
			assert.Regexp(t, `^TEST-[0-9A-F]{8}$`, r.CorrelationID)
		}
	})
}

func TestBookingSuiteRunsInPriorityOrder(t *testing.T) {
	withMockAPI(t, nil, func(baseURL string, env framework.Environment, _ *failureCollector) {
		results := framework.NewController(env, BookingSuite(baseURL)).Run()
		var names []string
		for _, r := range results.Tests {
			names = append(names, r.TestID.Path[1])
		}
		assert.Equal(t, []string{
			"testCreateBooking",
			"testUpdateBooking",
			"testPartialUpdateBooking",
			"testGetBooking",
			"testGetBookingIdsByName",
			"testDeleteBooking",
			"testGetBookingId",
		}, names)
	})
}

func TestBookingSuiteFindsBookingByName(t *testing.T) {
	withMockAPI(t, nil, func(baseURL string, env framework.Environment, collector *failureCollector) {
		core, logs := observer.New(zap.DebugLevel)
		env.Logger = zap.New(core)
		var filters framework.RegexFilters
		require.NoError(t, filters.MustNotMatch.Set("testGetBookingId$"))
		env.Filter = filters.AsFilter

		results := framework.NewController(env, BookingSuite(baseURL)).Run()
		require.True(t, results.OK(), "%v", collector.errors)

		assert.Equal(t, 1, logs.FilterMessageSnippet("Request Params: map[firstname:[Nico] lastname:[Robin]]").Len())
		assert.Equal(t, 1, logs.FilterMessageSnippet(`Response Body: [{"bookingid":3}`).Len())
	})
}

func TestBookingSuiteWithoutTokenIsSetupFailure(t *testing.T) {
	options := []mockapi.Option{mockapi.WithCredentials("someone", "else")}
	withMockAPI(t, options, func(baseURL string, env framework.Environment, _ *failureCollector) {
		results := framework.NewController(env, BookingSuite(baseURL)).Run()
		assert.Len(t, results.Tests, 0)
		require.Len(t, results.SetupFailures, 1)
		var setupErr *framework.SetupError
		require.ErrorAs(t, results.SetupFailures[0].Errors[0], &setupErr)
		assert.Equal(t, framework.PhaseSuiteStart, setupErr.Phase)
		assert.Contains(t, setupErr.Error(), "response failed validation")
	})
}

func TestScenarioAuthToken(t *testing.T) {
	withMockAPI(t, nil, func(baseURL string, env framework.Environment, collector *failureCollector) {
		var token string
		results := framework.NewController(env, framework.Suite{
			Name:    "Auth",
			BaseURL: baseURL,
			Tests: []framework.TestCase{{Name: "token", Action: func(t *framework.T) {
				t.Execute(request.Descriptor{
					Method: request.POST,
					Path:   "/auth",
					Body:   map[string]string{"username": "admin", "password": "password123"},
				})
				t.RequireStatus(200)
				token = framework.ReadResponse[servicedef.AuthResponse](t).Token
			}}},
		}).Run()
		require.True(t, results.OK(), "%v", collector.errors)
		assert.NotEmpty(t, token)
	})
}

func TestScenarioObjectByID(t *testing.T) {
	withMockAPI(t, nil, func(baseURL string, env framework.Environment, collector *failureCollector) {
		suite := PhoneSuite(baseURL)
		var filters framework.RegexFilters
		require.NoError(t, filters.MustMatch.Set("testGetObjectById"))
		env.Filter = filters.AsFilter

		results := framework.NewController(env, suite).Run()
		require.True(t, results.OK(), "%v", collector.errors)
		require.Len(t, results.Tests, 1)
		assert.Equal(t, "PhoneApiTest/testGetObjectById", results.Tests[0].TestID.String())
	})
}

func TestScenarioPartialUpdate(t *testing.T) {
	withMockAPI(t, nil, func(baseURL string, env framework.Environment, collector *failureCollector) {
		var before, after servicedef.Booking
		results := framework.NewController(env, framework.Suite{
			Name:    "Patch",
			BaseURL: baseURL,
			Hooks: framework.Hooks{BeforeSuite: func(t *framework.T) error {
				return (&bookingSuite{}).createToken(t)
			}},
			Tests: []framework.TestCase{{Name: "patch", Action: func(t *framework.T) {
				t.Execute(request.Descriptor{Method: request.GET, Path: "/booking/1"})
				t.DecodeResponse(&before)

				t.Execute(request.Descriptor{
					Method:     request.PATCH,
					Path:       "/booking/{id}",
					Headers:    request.TokenCookie(t.Session().Token()),
					PathParams: map[string]interface{}{"id": 1},
					Body: servicedef.Booking{
						Firstname:  servicedef.String("Nico"),
						Lastname:   servicedef.String("Robin"),
						TotalPrice: servicedef.Int(400000),
					},
				})
				t.RequireStatus(200)
				t.DecodeResponse(&after)
			}}},
		}).Run()
		require.True(t, results.OK(), "%v", collector.errors)

		assert.Equal(t, "Nico", *after.Firstname)
		assert.Equal(t, "Robin", *after.Lastname)
		assert.Equal(t, 400000, *after.TotalPrice)
		assert.Equal(t, before.BookingDates, after.BookingDates)
		assert.Equal(t, before.DepositPaid, after.DepositPaid)
	})
}

func TestSuitesFailAgainstWrongTarget(t *testing.T) {
	httphelpers.WithServer(httphelpers.HandlerWithStatus(404), func(server *httptest.Server) {
		results := framework.RunSuites(framework.Environment{}, PhoneSuite(server.URL))
		assert.False(t, results.OK())
		assert.Len(t, results.Failures, 2)
	})
}
