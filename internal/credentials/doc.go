// Package credentials locates the credential used to authenticate against the
// text-generation service.
//
// A credential source is declared as env:NAME or file:/path. Environment
// variables may be seeded from dotenv files before resolution.
package credentials
