package processor

import (
	"github.com/golang/snappy"
)

// CompressExport сжимает содержимое выгрузки для архивного хранения
func CompressExport(data []byte) []byte {
	return snappy.Encode(nil, data)
}

// DecompressExport распаковывает архивную копию выгрузки
func DecompressExport(data []byte) ([]byte, error) {
	decompressed, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, err
	}
	return decompressed, nil
}
