package lightwalletd

import (
	"encoding/hex"

	"github.com/zcash/lightwalletd/walletrpc"
	"google.golang.org/protobuf/proto"
)

// lightwalletd serves hashes in the internal little-endian byte order, the
// ports expose them the way block explorers and zcashd print them.
func displayHash(hash []byte) string {
	if len(hash) == 0 {
		return ""
	}
	reversed := make([]byte, len(hash))
	for i, b := range hash {
		reversed[len(hash)-1-i] = b
	}
	return hex.EncodeToString(reversed)
}

type blockID struct {
	*walletrpc.BlockID
}

func (b blockID) GetHash() string {
	return displayHash(b.BlockID.GetHash())
}

type compactBlock struct {
	*walletrpc.CompactBlock
}

func (b compactBlock) GetHash() string {
	return displayHash(b.CompactBlock.GetHash())
}

func (b compactBlock) GetPrevHash() string {
	return displayHash(b.CompactBlock.GetPrevHash())
}

func (b compactBlock) GetNumTransactions() int {
	return len(b.GetVtx())
}

// GetRaw returns the protobuf encoding of the block, nil if it cannot be
// encoded.
func (b compactBlock) GetRaw() []byte {
	raw, err := proto.Marshal(b.CompactBlock)
	if err != nil {
		return nil
	}
	return raw
}

type lightdInfo struct {
	*walletrpc.LightdInfo
}

func (i lightdInfo) GetConsensusBranchID() string {
	return i.GetConsensusBranchId()
}
