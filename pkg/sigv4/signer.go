package sigv4

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

const (
	// Algorithm is the SigV4 algorithm marker used in the string to sign and
	// the Authorization header
	Algorithm = "AWS4-HMAC-SHA256"

	// ServiceS3 is the service name used in the credential scope for S3
	ServiceS3 = "s3"

	// ScopeTerminator closes every credential scope
	ScopeTerminator = "aws4_request"

	amzDateFormat = "20060102T150405Z"
)

// FormatAmzDate renders t as the basic ISO-8601 timestamp used by x-amz-date
// (20240115T103000Z) together with its 8 character date stamp (20240115)
func FormatAmzDate(t time.Time) (amzDate string, dateStamp string) {
	amzDate = t.UTC().Format(amzDateFormat)
	return amzDate, amzDate[:8]
}

// HashHex returns the lowercase hex SHA-256 digest of data
func HashHex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DeriveSigningKey derives the key scoped to a single date, region and
// service. Each step keys the next HMAC with the previous output.
func DeriveSigningKey(secretAccessKey, dateStamp, region, service string) []byte {
	kDate := hmacSHA256([]byte("AWS4"+secretAccessKey), dateStamp)
	kRegion := hmacSHA256(kDate, region)
	kService := hmacSHA256(kRegion, service)
	return hmacSHA256(kService, ScopeTerminator)
}

// Signature signs stringToSign with a derived signing key and returns the
// lowercase hex encoding
func Signature(signingKey []byte, stringToSign string) string {
	return hex.EncodeToString(hmacSHA256(signingKey, stringToSign))
}

// CredentialScope builds date/region/service/aws4_request
func CredentialScope(dateStamp, region, service string) string {
	return strings.Join([]string{dateStamp, region, service, ScopeTerminator}, "/")
}

// StringToSign wraps the hashed canonical request with the algorithm marker,
// timestamp and credential scope
func StringToSign(amzDate, scope, canonicalRequest string) string {
	return strings.Join([]string{
		Algorithm,
		amzDate,
		scope,
		HashHex([]byte(canonicalRequest)),
	}, "\n")
}

// AuthorizationHeader formats the value of the Authorization header
func AuthorizationHeader(accessKeyID, scope, signedHeaders, signature string) string {
	return fmt.Sprintf("%s Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		Algorithm, accessKeyID, scope, signedHeaders, signature)
}

func hmacSHA256(key []byte, data string) []byte {
	h := hmac.New(sha256.New, key)
	h.Write([]byte(data))
	return h.Sum(nil)
}
