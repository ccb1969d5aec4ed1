package common

// AccessTokenHeaderName is the gRPC/HTTP metadata key used to carry the
// access token on incoming requests.
const AccessTokenHeaderName = "access_token"
