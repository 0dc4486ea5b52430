// Package session tracks live digest sessions and the backend devices
// they hold. A fixed capacity store maps numeric handles to guards,
// each guard owning one backend context and one device lease that are
// torn down together exactly once.
package session
