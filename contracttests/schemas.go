package contracttests

const bookingSchema = `{
	"type": "object",
	"required": ["firstname", "lastname", "totalprice", "depositpaid", "bookingdates"],
	"properties": {
		"firstname": {"type": "string"},
		"lastname": {"type": "string"},
		"totalprice": {"type": "integer", "minimum": 0},
		"depositpaid": {"type": "boolean"},
		"bookingdates": {
			"type": "object",
			"required": ["checkin", "checkout"],
			"properties": {
				"checkin": {"type": "string"},
				"checkout": {"type": "string"}
			}
		},
		"additionalneeds": {"type": "string"}
	}
}`

const bookingCreatedSchema = `{
	"type": "object",
	"required": ["bookingid", "booking"],
	"properties": {
		"bookingid": {"type": "integer", "minimum": 1},
		"booking": {"type": "object"}
	}
}`

const bookingIDsSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["bookingid"],
		"properties": {"bookingid": {"type": "integer"}}
	}
}`

const objectSchema = `{
	"type": "object",
	"required": ["id", "name"],
	"properties": {
		"id": {"type": ["string", "integer"]},
		"name": {"type": "string"},
		"data": {"type": ["object", "null"]}
	}
}`

const objectListSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["id", "name"]
	}
}`
