// Package services contains the client's application services. Each service
// validates input before anything is sent, calls the API and leaves the
// session consistent with the result.
package services
