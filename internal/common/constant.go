// Package common contains shared constants and sentinel errors used across
// SkillSwap components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on inbound and outbound requests.
const AccessTokenHeaderName = "access_token"

// JSONContentSubtype is the gRPC content-subtype both sides use to select
// the JSON codec.
const JSONContentSubtype = "json"
