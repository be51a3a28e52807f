/*
Package x contains the authentication interfaces shared by the ledger
extensions.

All sub-packages are extensions that implement handlers, decorators and
genesis initializers. They are combined together in cmd/payrolld/app to
construct the application.
*/
package x
