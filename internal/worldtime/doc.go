// Package worldtime provides a typed client for the WorldTimeAPI REST API
// (https://worldtimeapi.org).
//
// The client is a thin wrapper over net/http: every method issues one GET,
// checks the status code and decodes the JSON body. It never retries; the
// only timeout is the one configured on the underlying http.Client.
//
// Errors are returned as-is so callers can classify them: transport errors
// from net/http, *StatusError for non-2xx responses, and *DecodeError for
// bodies that are not the expected JSON.
package worldtime
