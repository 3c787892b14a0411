// Package client is the CLI's gRPC client for the SkillSwap service. It
// attaches the access token to every call and translates status errors
// back into the shared sentinel errors.
package client
