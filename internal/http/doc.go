// Package http provides HTTP handlers and middleware for the planner API.
//
// The router exposes the following endpoints:
//   - POST /sessions: issues a session token. Body: {"email","password"}.
//     Response: {"token","expires_at"} with the token also surfaced via the
//     `X-Session-Token` header and a `session_token` cookie.
//   - DELETE /sessions/current: revokes the current session token extracted
//     from the Authorization header or session cookie.
//   - GET /rosters, POST /rosters, GET/PUT/DELETE /rosters/{id}: stored
//     roster snapshot endpoints exchanging the `rosterDTO` payload defined
//     in roster_handler.go.
//   - POST /plan: runs one evaluation pass over an inline people set or a
//     stored roster, in one of the best, worst, ranked, or hourly modes, and
//     returns rendered windows plus per-person statuses.
//
// Request/response DTOs live alongside their respective handlers so tests
// and documentation share the same ground truth.
package http
