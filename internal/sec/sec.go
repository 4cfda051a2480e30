// Package sec provides the authentication and security primitives for the
// JSON API.
//
// # Authentication
//
// Authentication is session-based: a successful login issues a signed,
// time-limited token carried in an HttpOnly cookie. Credentials are validated
// against bcrypt password hashes stored in the database. Tokens are stateless;
// logout removes the client's cookie but cannot revoke a token that has
// already been issued, which stays valid until its natural expiry.
//
// IMPORTANT: the session cookie is marked Secure and SameSite=None because the
// web client and this server run on different origins. TLS is mandatory in
// production or browsers will drop the cookie entirely.
//
// # Components
//
//   - [HashPassword], [ComparePassword]: bcrypt password hashing utilities
//   - [IssueSession], [VerifySession]: signed session token issuance/validation
//   - [AttachSession], [ReadSession], [ClearSession]: cookie transport
//   - [RequireSession]: echo middleware gating protected routes
//   - [GetAuthenticatedUser], [SetAuthenticatedUser]: context accessors
package sec
