package application_test

import (
	"bytes"

	"github.com/numi-network/numi-wallet/pkg/zaddr"
)

const testNet = zaddr.Regtest

func transparentAddress(b byte) string {
	addr, err := zaddr.EncodeTransparent(bytes.Repeat([]byte{b}, 20), zaddr.KindP2PKH, testNet)
	if err != nil {
		panic(err)
	}
	return addr
}

func saplingAddress(b byte) string {
	addr, err := zaddr.EncodeShielded(bytes.Repeat([]byte{b}, 43), zaddr.KindSapling, testNet)
	if err != nil {
		panic(err)
	}
	return addr
}
