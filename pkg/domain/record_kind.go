// Package domain holds the value vocabulary shared across features: record
// kinds, organization credentials, caller identity, and the classification
// enumerations carried on survey and certificate records.
//
// The string values of these types are part of the exposed contract and must
// not change: gateway callers and stored ledger records depend on them
// byte-for-byte.
package domain

// RecordKind is the discriminator field distinguishing stored record types
// during range scans. All records live in one flat keyspace, so the kind tag
// is the only way to tell them apart.
type RecordKind string

const (
	KindAuthority   RecordKind = "authority"
	KindShipOwner   RecordKind = "shipowner"
	KindVessel      RecordKind = "vessel"
	KindSurvey      RecordKind = "survey"
	KindCertificate RecordKind = "certificate"
	KindUser        RecordKind = "user"
)
