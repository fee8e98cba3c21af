package sigv4

import (
	"sort"
	"strings"
	"time"
)

// Header is a single request header taking part in the signature
type Header struct {
	Name  string
	Value string
}

// CanonicalHeaders renders headers as "name:value\n" lines sorted by
// lower-cased name, plus the matching semicolon separated name list.
// Repeated names are merged into one line with comma separated values, so
// the signed header list never holds duplicates.
func CanonicalHeaders(headers []Header) (canonical string, signed string) {
	values := make(map[string][]string, len(headers))
	names := make([]string, 0, len(headers))

	for _, h := range headers {
		name := strings.ToLower(strings.TrimSpace(h.Name))
		if name == "" {
			continue
		}
		if _, ok := values[name]; !ok {
			names = append(names, name)
		}
		values[name] = append(values[name], canonicalHeaderValue(h.Value))
	}

	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteString(":")
		b.WriteString(strings.Join(values[name], ","))
		b.WriteString("\n")
	}

	return b.String(), strings.Join(names, ";")
}

func canonicalHeaderValue(v string) string {
	return strings.Join(strings.Fields(v), " ")
}

// BuildCanonicalRequest produces the canonical request for a request without
// query parameters
func BuildCanonicalRequest(method, canonicalURI string, headers []Header, payloadHash string) string {
	canonicalHeaders, signedHeaders := CanonicalHeaders(headers)
	return joinCanonicalRequest(method, canonicalURI, canonicalHeaders, signedHeaders, payloadHash)
}

func joinCanonicalRequest(method, canonicalURI, canonicalHeaders, signedHeaders, payloadHash string) string {
	// The empty element is the canonical query string.
	return strings.Join([]string{
		method,
		canonicalURI,
		"",
		canonicalHeaders,
		signedHeaders,
		payloadHash,
	}, "\n")
}

// Input carries everything needed to sign one request
type Input struct {
	Method          string
	CanonicalURI    string
	Headers         []Header
	PayloadHash     string
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Service         string
	Time            time.Time
}

// SignedRequest holds every intermediate value of a signature. It is built
// once per attempt and never reused after the request completes.
type SignedRequest struct {
	Method           string
	CanonicalURI     string
	CanonicalHeaders string
	SignedHeaders    string
	PayloadHash      string
	AmzDate          string
	DateStamp        string
	CredentialScope  string
	CanonicalRequest string
	StringToSign     string
	Signature        string
	Authorization    string
}

// Sign runs the full pipeline: canonical request, string to sign, scoped
// signing key and Authorization header. The x-amz-date header, when present
// in in.Headers, must match in.Time.
func Sign(in Input) SignedRequest {
	service := in.Service
	if service == "" {
		service = ServiceS3
	}

	amzDate, dateStamp := FormatAmzDate(in.Time)
	canonicalHeaders, signedHeaders := CanonicalHeaders(in.Headers)
	canonicalRequest := joinCanonicalRequest(in.Method, in.CanonicalURI, canonicalHeaders, signedHeaders, in.PayloadHash)

	scope := CredentialScope(dateStamp, in.Region, service)
	stringToSign := StringToSign(amzDate, scope, canonicalRequest)
	signingKey := DeriveSigningKey(in.SecretAccessKey, dateStamp, in.Region, service)
	signature := Signature(signingKey, stringToSign)

	return SignedRequest{
		Method:           in.Method,
		CanonicalURI:     in.CanonicalURI,
		CanonicalHeaders: canonicalHeaders,
		SignedHeaders:    signedHeaders,
		PayloadHash:      in.PayloadHash,
		AmzDate:          amzDate,
		DateStamp:        dateStamp,
		CredentialScope:  scope,
		CanonicalRequest: canonicalRequest,
		StringToSign:     stringToSign,
		Signature:        signature,
		Authorization:    AuthorizationHeader(in.AccessKeyID, scope, signedHeaders, signature),
	}
}
