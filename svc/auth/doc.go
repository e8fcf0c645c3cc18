// Package auth links provider identities to local profiles and guards the
// gateway's protected routes.
//
// Service orchestrates registration, login, logout and profile reads and
// updates over an IdentityProvider and a ProfileStore. Pipeline is the
// per-request authorization chain:
//
//	extract credential -> verify with provider -> hydrate profile -> attach -> role gate
//
// Each step runs strictly after the previous one. RequireRole used on its own
// answers 401 rather than deciding on a missing profile, and Gate always puts
// RequireAuth first.
//
// Upstream failures are mapped to the error taxonomy through a closed table of
// message fragments (see classify); anything unmatched is an upstream error.
package auth
