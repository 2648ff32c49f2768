// Package common contains shared constants and sentinel errors used across
// ImuneTrack components.
package common

// RequestIDHeaderName is the HTTP header carrying the per-request correlation id.
const RequestIDHeaderName = "X-Request-ID"

// AuthorizationHeaderName carries the bearer access token issued on login.
const AuthorizationHeaderName = "Authorization"
