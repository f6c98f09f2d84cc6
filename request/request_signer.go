package request

import (
	"bytes"
	"encoding/hex"
	"errors"
	"io"
	"net/http"

	"github.com/infigaming-com/go-money/util"
)

// RequestSigner adds authentication headers to an outgoing request.
type RequestSigner func(req *http.Request, signerKeys any) error

type HmacSha256SignerKeys struct {
	ApiKeyHeader    string
	SignatureHeader string
	ApiKey          string
	ApiKeySecret    string
}

// getCanonicalizedMessage returns the encoded query for GET requests and the
// raw body otherwise. The body is restored so it can still be sent.
func getCanonicalizedMessage(req *http.Request) ([]byte, error) {
	if req.Method == http.MethodGet {
		return []byte(req.URL.Query().Encode()), nil
	}

	if req.Body == nil {
		return nil, nil
	}
	requestBody, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}
	req.Body = io.NopCloser(bytes.NewReader(requestBody))
	return requestBody, nil
}

func HmacSha256Signer(req *http.Request, signerKeys any) error {
	keys, ok := signerKeys.(HmacSha256SignerKeys)
	if !ok {
		return errors.New("signer keys must be HmacSha256SignerKeys")
	}
	message, err := getCanonicalizedMessage(req)
	if err != nil {
		return err
	}
	req.Header.Set(keys.ApiKeyHeader, keys.ApiKey)
	req.Header.Set(keys.SignatureHeader, CalculateHmacSha256Hash(message, keys.ApiKeySecret))
	return nil
}

func CalculateHmacSha256Hash(message []byte, secret string) string {
	return hex.EncodeToString(util.HmacSha256Hash(message, []byte(secret)))
}
