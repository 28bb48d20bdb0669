package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strconv"
	"time"
)

const (
	headerKey       = "PIONEX-KEY"
	headerSignature = "PIONEX-SIGNATURE"
)

// canonicalQuery сортирует ключи и URL-кодирует пары. url.Values.Encode
// уже даёт отсортированный порядок ключей.
func canonicalQuery(params map[string]string) string {
	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}
	return values.Encode()
}

// signPayload строит строку подписи METHOD + path + '?' + query [+ body]
// и возвращает hex HMAC-SHA256 от секретного ключа.
func (c *Client) signPayload(method, path, query, body string) string {
	payload := method + path
	if query != "" {
		payload += "?" + query
	}
	payload += body

	h := hmac.New(sha256.New, []byte(c.secretKey))
	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil))
}

func timestampMillis(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10)
}
