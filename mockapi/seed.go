package mockapi

import "github.com/setianjay/api-contract-tests/servicedef"

// seedObjects mirrors the fixed catalog entries served by the public object API.
const seedObjects = `[
	{"id": "1", "name": "Google Pixel 6 Pro", "data": {"color": "Cloudy White", "capacity": "128 GB"}},
	{"id": "2", "name": "Apple iPhone 12 Mini, 256GB, Blue", "data": null},
	{"id": "3", "name": "Apple iPhone 12 Pro Max", "data": {"color": "Cloudy White", "capacity GB": 512}},
	{"id": "4", "name": "Apple iPhone 11, 64GB", "data": {"price": 389.99, "color": "Purple"}},
	{"id": "5", "name": "Samsung Galaxy Z Fold2", "data": {"price": 689.99, "color": "Brown"}},
	{"id": "6", "name": "Apple AirPods", "data": {"generation": "3rd", "price": 120}},
	{"id": "7", "name": "Apple MacBook Pro 16", "data": {"year": 2019, "price": 1849.99, "CPU model": "Intel Core i9", "Hard disk size": "1 TB"}},
	{"id": "8", "name": "Apple Watch Series 8", "data": {"Strap Colour": "Elderberry", "Case Size": "41mm"}},
	{"id": "9", "name": "Beats Studio3 Wireless", "data": {"Color": "Red", "Description": "High-performance wireless noise cancelling headphones"}},
	{"id": "10", "name": "Apple iPad Mini 5th Gen", "data": {"Capacity": "64 GB", "Screen size": 7.9}},
	{"id": "11", "name": "Apple iPad Mini 5th Gen", "data": {"Capacity": "254 GB", "Screen size": 7.9}},
	{"id": "12", "name": "Apple iPad Air", "data": {"Generation": "4th", "Price": "419.99", "Capacity": "64 GB"}},
	{"id": "13", "name": "Apple iPad Air", "data": {"Generation": "4th", "Price": "519.99", "Capacity": "256 GB"}}
]`

func seedBookings() []servicedef.Booking {
	return []servicedef.Booking{
		{
			Firstname:   servicedef.String("Monkey D."),
			Lastname:    servicedef.String("Luffy"),
			TotalPrice:  servicedef.Int(150),
			DepositPaid: servicedef.Bool(true),
			BookingDates: &servicedef.BookingDates{
				Checkin:  "2025-01-01",
				Checkout: "2025-01-05",
			},
			AdditionalNeeds: servicedef.String("Breakfast"),
		},
		{
			Firstname:   servicedef.String("Roronoa"),
			Lastname:    servicedef.String("Zoro"),
			TotalPrice:  servicedef.Int(90),
			DepositPaid: servicedef.Bool(false),
			BookingDates: &servicedef.BookingDates{
				Checkin:  "2025-02-10",
				Checkout: "2025-02-12",
			},
		},
	}
}
