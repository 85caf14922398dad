// Package servicedef contains the request and response bodies exchanged with the
// booking and object catalog APIs.
package servicedef
