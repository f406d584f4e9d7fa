package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the device
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// DateLayout is the layout of target dates ("2024-03-01").
const DateLayout = "2006-01-02"
