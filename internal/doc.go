// Package internal contains the implementation packages for the VacuumAssist
// marketing site.
//
// # Package Organization
//
//   - components: gomponents page sections and the full page layout
//   - contact: the contact form state machine and lead notifiers
//   - session: per-visitor contact forms keyed by cookie
//   - server: HTTP routing, security headers, and rate limiting
//   - renderer: templ adapters for gomponents nodes
//   - export: static site generation with a file manifest
//   - accessibility: WCAG checks over rendered HTML
//   - config, logging, errors, validation: shared infrastructure
//   - watcher, livereload: development asset reloading
//
// Sections are pure functions of a contact form snapshot. The only
// mutable state is held by contact.Form behind its own lock, and
// session.Store hands each visitor their own form.
package internal
