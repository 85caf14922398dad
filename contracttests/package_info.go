// Package contracttests contains the contract suites run by the harness: one for the
// booking API and one for the object catalog API.
package contracttests
