// internal/handlers/ws_codes.go
package handlers

// Close codes sent on the relay socket in addition to the standard ones.
const (
	BadSubprotocolError   = 3000 // client did not offer the relay subprotocol
	InvalidAuthTokenError = 3001 // token missing, invalid or expired
	InvalidLobbyIDError   = 3003 // lobby does not exist
	NotSeatedError        = 3004 // caller holds neither seat of the lobby
)
