// Package bridgebot and its sub-packages automate the funding flow of a set of blockchain wallets.
/*
bridgebot provides two commands:

1) wallet (cmd/wallet) generates accounts, either random or derived from an HD seed, and appends them to the account
 store.

2) runner (cmd/runner) walks the stored accounts in order. For each account it deposits ether into the bridge on the
 deposit chain, waits, wraps ether into WETH on the swap chain, waits, and swaps ether for DAI through the router.

Architecture

Accounts are kept in a product agnostic store (package lib/store): a JSON or JS file, MongoDB or PostgreSQL, chosen in
the JSON config file.

A blockchain layer (package lib/block) opens one client per account and chain. It reads balances, encodes contract
calls from the interfaces in package lib/contracts and signs and submits transactions.

Package pipeline runs the three steps of one account. Every step is gated on the account balance and nothing is
retried. A failed deposit skips the swaps of that account. A failed WETH wrap does not stop the DAI swap. Package runner
drives the pipeline over the store and keeps a report of the outcomes.

Sent transactions can be published to a message broker (package lib/msg) so other services can follow the run.

The runner can also be monitored via a Prometheus API and an outcomes endpoint (package monitor) by setting the flag
"-m" at startup.
*/
package bridgebot
