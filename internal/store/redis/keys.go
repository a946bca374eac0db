package redis

import "fmt"

const (
	// KeyPrefixKV is the prefix for every key written by the KV store
	KeyPrefixKV = "linlv:kv:"
)

// KVKey returns the Redis key for a logical store key
func KVKey(key string) string {
	return KeyPrefixKV + key
}

// ExtractKVKey strips the prefix from a Redis key
func ExtractKVKey(redisKey string) (string, error) {
	if len(redisKey) <= len(KeyPrefixKV) || redisKey[:len(KeyPrefixKV)] != KeyPrefixKV {
		return "", fmt.Errorf("invalid kv key: %s", redisKey)
	}
	return redisKey[len(KeyPrefixKV):], nil
}
