package domain

import (
	"fmt"
	"strings"
)

// RecordType is a DNS resource-record type (e.g. A, AAAA, MX). The set is
// closed: values outside the constants below are rejected at the manifest
// boundary by ParseRecordType.
type RecordType string

const (
	TypeA          RecordType = "A"
	TypeAAAA       RecordType = "AAAA"
	TypeAFSDB      RecordType = "AFSDB"
	TypeAPL        RecordType = "APL"
	TypeCAA        RecordType = "CAA"
	TypeCDNSKEY    RecordType = "CDNSKEY"
	TypeCDS        RecordType = "CDS"
	TypeCERT       RecordType = "CERT"
	TypeCNAME      RecordType = "CNAME"
	TypeCSYNC      RecordType = "CSYNC"
	TypeDHCID      RecordType = "DHCID"
	TypeDLV        RecordType = "DLV"
	TypeDNAME      RecordType = "DNAME"
	TypeDNSKEY     RecordType = "DNSKEY"
	TypeDS         RecordType = "DS"
	TypeEUI48      RecordType = "EUI48"
	TypeEUI64      RecordType = "EUI64"
	TypeHINFO      RecordType = "HINFO"
	TypeHIP        RecordType = "HIP"
	TypeHTTPS      RecordType = "HTTPS"
	TypeIPSECKEY   RecordType = "IPSECKEY"
	TypeKEY        RecordType = "KEY"
	TypeKX         RecordType = "KX"
	TypeLOC        RecordType = "LOC"
	TypeMX         RecordType = "MX"
	TypeNAPTR      RecordType = "NAPTR"
	TypeNS         RecordType = "NS"
	TypeNSEC       RecordType = "NSEC"
	TypeNSEC3      RecordType = "NSEC3"
	TypeNSEC3PARAM RecordType = "NSEC3PARAM"
	TypeOPENPGPKEY RecordType = "OPENPGPKEY"
	TypePTR        RecordType = "PTR"
	TypeRP         RecordType = "RP"
	TypeRRSIG      RecordType = "RRSIG"
	TypeSIG        RecordType = "SIG"
	TypeSMIMEA     RecordType = "SMIMEA"
	TypeSOA        RecordType = "SOA"
	TypeSRV        RecordType = "SRV"
	TypeSSHFP      RecordType = "SSHFP"
	TypeSVCB       RecordType = "SVCB"
	TypeTA         RecordType = "TA"
	TypeTKEY       RecordType = "TKEY"
	TypeTLSA       RecordType = "TLSA"
	TypeTSIG       RecordType = "TSIG"
	TypeTXT        RecordType = "TXT"
	TypeURI        RecordType = "URI"
	TypeZONEMD     RecordType = "ZONEMD"
)

var recordTypes = map[RecordType]struct{}{
	TypeA: {}, TypeAAAA: {}, TypeAFSDB: {}, TypeAPL: {}, TypeCAA: {},
	TypeCDNSKEY: {}, TypeCDS: {}, TypeCERT: {}, TypeCNAME: {}, TypeCSYNC: {},
	TypeDHCID: {}, TypeDLV: {}, TypeDNAME: {}, TypeDNSKEY: {}, TypeDS: {},
	TypeEUI48: {}, TypeEUI64: {}, TypeHINFO: {}, TypeHIP: {}, TypeHTTPS: {},
	TypeIPSECKEY: {}, TypeKEY: {}, TypeKX: {}, TypeLOC: {}, TypeMX: {},
	TypeNAPTR: {}, TypeNS: {}, TypeNSEC: {}, TypeNSEC3: {}, TypeNSEC3PARAM: {},
	TypeOPENPGPKEY: {}, TypePTR: {}, TypeRP: {}, TypeRRSIG: {}, TypeSIG: {},
	TypeSMIMEA: {}, TypeSOA: {}, TypeSRV: {}, TypeSSHFP: {}, TypeSVCB: {},
	TypeTA: {}, TypeTKEY: {}, TypeTLSA: {}, TypeTSIG: {}, TypeTXT: {},
	TypeURI: {}, TypeZONEMD: {},
}

// ParseRecordType maps s (any case) onto the closed RecordType set.
func ParseRecordType(s string) (RecordType, error) {
	t := RecordType(strings.ToUpper(s))
	if _, ok := recordTypes[t]; !ok {
		return "", fmt.Errorf("unknown record type '%s'", s)
	}
	return t, nil
}

// RecordClass is a DNS resource class.
type RecordClass string

const (
	// ClassIN is the Internet class, the default for records.
	ClassIN RecordClass = "IN"
	// ClassCH is the Chaos class.
	ClassCH RecordClass = "CH"
	// ClassHS is the Hesiod class.
	ClassHS RecordClass = "HS"
)

// ParseRecordClass maps s (any case) onto the closed RecordClass set.
// The empty string defaults to IN.
func ParseRecordClass(s string) (RecordClass, error) {
	if s == "" {
		return ClassIN, nil
	}
	switch c := RecordClass(strings.ToUpper(s)); c {
	case ClassIN, ClassCH, ClassHS:
		return c, nil
	default:
		return "", fmt.Errorf("unknown record class '%s'", s)
	}
}
