// Package politics runs the government's political stages: devolved and local
// government stress, parliament, manifesto bookkeeping, public standing,
// Prime Ministerial interventions and the terminal conditions.
package politics
