package common

// AuthorizationHeaderName carries the bearer access token on HTTP requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token inside the Authorization header.
const BearerPrefix = "Bearer "

// RequestIDHeaderName is echoed back on every HTTP response.
const RequestIDHeaderName = "X-Request-Id"
