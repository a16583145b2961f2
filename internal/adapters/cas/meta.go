package cas

import (
	"github.com/fxamacker/cbor/v2"
	"go.trai.ch/cfgcache/internal/core/domain"
	"go.trai.ch/zerr"
)

// metaEncMode produces the same sidecar bytes for the same entry info.
var metaEncMode cbor.EncMode

var metaDecMode cbor.DecMode

func init() {
	encOptions := cbor.CoreDetEncOptions()
	encOptions.Time = cbor.TimeRFC3339Nano

	var err error
	metaEncMode, err = encOptions.EncMode()
	if err != nil {
		panic("cas: CBOR encoder initialization failed: " + err.Error())
	}

	metaDecMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("cas: CBOR decoder initialization failed: " + err.Error())
	}
}

func marshalInfo(info domain.EntryInfo) ([]byte, error) {
	data, err := metaEncMode.Marshal(info)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrStoreMetaFailed, err.Error()), "key", info.Key)
	}
	return data, nil
}

func unmarshalInfo(data []byte, path string) (domain.EntryInfo, error) {
	var info domain.EntryInfo
	if err := metaDecMode.Unmarshal(data, &info); err != nil {
		return domain.EntryInfo{}, zerr.With(zerr.Wrap(domain.ErrStoreMetaFailed, err.Error()), "path", path)
	}
	return info, nil
}
