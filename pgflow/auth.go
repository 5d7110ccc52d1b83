package pgflow

import (
	"crypto/md5"
	"encoding/hex"
	"io"
)

func hexMD5(s string) string {
	hash := md5.New()
	io.WriteString(hash, s)
	return hex.EncodeToString(hash.Sum(nil))
}

func md5Password(user, password string, salt [4]byte) string {
	return "md5" + hexMD5(hexMD5(password+user)+string(salt[:]))
}
