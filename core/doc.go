// Package core implements the OAuth authorization/credential lifecycle and
// the canonical item pipeline for delegated CRM access. It owns the ephemeral
// store contracts, the state token one-shot validation, the transient
// credential handoff, and the orchestration of provider item fetches.
package core
