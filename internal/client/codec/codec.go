// Package codec produces the canonical binary form of an evidence bundle.
//
// The encoding is protobuf wire format written field by field in a fixed
// order, with map entries sorted by key and zero values omitted, so equal
// bundles always produce identical bytes. That property is what makes the
// plaintext hash of a package reproducible after decryption.
package codec

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/dmitrijs2005/evidencevault/internal/client/models"
	"google.golang.org/protobuf/encoding/protowire"
)

// FormatVersion is written into every encoded bundle.
const FormatVersion = 1

var ErrMalformed = errors.New("malformed evidence bundle")

const (
	bundleTargetDate protowire.Number = 1
	bundlePhoto      protowire.Number = 2
	bundleMessage    protowire.Number = 3
	bundleDocument   protowire.Number = 4
	bundleVersion    protowire.Number = 15

	photoName     protowire.Number = 1
	photoMime     protowire.Number = 2
	photoData     protowire.Number = 3
	photoTakenAt  protowire.Number = 4
	photoWidth    protowire.Number = 5
	photoHeight   protowire.Number = 6
	photoExif     protowire.Number = 7
	photoLocation protowire.Number = 8

	msgID       protowire.Number = 1
	msgSender   protowire.Number = 2
	msgText     protowire.Number = 3
	msgSentAt   protowire.Number = 4
	msgPlatform protowire.Number = 5

	docName protowire.Number = 1
	docMime protowire.Number = 2
	docData protowire.Number = 3

	kvKey   protowire.Number = 1
	kvValue protowire.Number = 2

	locLat      protowire.Number = 1
	locLon      protowire.Number = 2
	locAccuracy protowire.Number = 3
)

// Marshal encodes b canonically.
func Marshal(b models.EvidenceBundle) []byte {
	var out []byte
	out = appendVarint(out, bundleVersion, FormatVersion)
	out = appendString(out, bundleTargetDate, b.TargetDate)
	if b.Photo != nil {
		out = appendMessage(out, bundlePhoto, marshalPhoto(b.Photo))
	}
	for _, m := range b.Messages {
		out = appendMessage(out, bundleMessage, marshalMessage(m))
	}
	for _, d := range b.Documents {
		out = appendMessage(out, bundleDocument, marshalDocument(d))
	}
	return out
}

// MarshalMessages encodes only the ordered message list; used for the
// per-kind integrity hash.
func MarshalMessages(msgs []models.Message) []byte {
	var out []byte
	for _, m := range msgs {
		out = appendMessage(out, bundleMessage, marshalMessage(m))
	}
	return out
}

func marshalPhoto(p *models.Photo) []byte {
	var out []byte
	out = appendString(out, photoName, p.Name)
	out = appendString(out, photoMime, p.MimeType)
	out = appendBytes(out, photoData, p.Data)
	out = appendTime(out, photoTakenAt, p.TakenAt)
	out = appendVarint(out, photoWidth, uint64(p.Width))
	out = appendVarint(out, photoHeight, uint64(p.Height))

	keys := make([]string, 0, len(p.Exif))
	for k := range p.Exif {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		var kv []byte
		kv = appendString(kv, kvKey, k)
		kv = appendString(kv, kvValue, p.Exif[k])
		out = appendMessage(out, photoExif, kv)
	}

	if p.Location != nil {
		var loc []byte
		loc = appendFloat(loc, locLat, p.Location.Latitude)
		loc = appendFloat(loc, locLon, p.Location.Longitude)
		loc = appendFloat(loc, locAccuracy, p.Location.Accuracy)
		out = appendMessage(out, photoLocation, loc)
	}
	return out
}

func marshalMessage(m models.Message) []byte {
	var out []byte
	out = appendString(out, msgID, m.ID)
	out = appendString(out, msgSender, m.Sender)
	out = appendString(out, msgText, m.Text)
	out = appendTime(out, msgSentAt, m.SentAt)
	out = appendString(out, msgPlatform, m.Platform)
	return out
}

func marshalDocument(d models.Document) []byte {
	var out []byte
	out = appendString(out, docName, d.Name)
	out = appendString(out, docMime, d.MimeType)
	out = appendBytes(out, docData, d.Data)
	return out
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

// appendMessage always writes the field, even when the nested message is empty,
// so presence survives a round trip.
func appendMessage(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendTime(b []byte, num protowire.Number, t time.Time) []byte {
	if t.IsZero() {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeZigZag(t.UnixNano()))
}

func appendFloat(b []byte, num protowire.Number, f float64) []byte {
	if f == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(f))
}

// Unmarshal decodes a canonical bundle produced by Marshal.
func Unmarshal(data []byte) (models.EvidenceBundle, error) {
	var b models.EvidenceBundle
	err := walk(data, func(num protowire.Number, typ protowire.Type, v field) error {
		switch num {
		case bundleVersion:
			if v.varint != FormatVersion {
				return fmt.Errorf("%w: unsupported format version %d", ErrMalformed, v.varint)
			}
		case bundleTargetDate:
			b.TargetDate = string(v.bytes)
		case bundlePhoto:
			p, err := unmarshalPhoto(v.bytes)
			if err != nil {
				return err
			}
			b.Photo = p
		case bundleMessage:
			m, err := unmarshalMessage(v.bytes)
			if err != nil {
				return err
			}
			b.Messages = append(b.Messages, m)
		case bundleDocument:
			d, err := unmarshalDocument(v.bytes)
			if err != nil {
				return err
			}
			b.Documents = append(b.Documents, d)
		}
		return nil
	})
	return b, err
}

func unmarshalPhoto(data []byte) (*models.Photo, error) {
	p := &models.Photo{}
	err := walk(data, func(num protowire.Number, typ protowire.Type, v field) error {
		switch num {
		case photoName:
			p.Name = string(v.bytes)
		case photoMime:
			p.MimeType = string(v.bytes)
		case photoData:
			p.Data = append([]byte(nil), v.bytes...)
		case photoTakenAt:
			p.TakenAt = decodeTime(v.varint)
		case photoWidth:
			p.Width = int(v.varint)
		case photoHeight:
			p.Height = int(v.varint)
		case photoExif:
			var k, val string
			if err := walk(v.bytes, func(n protowire.Number, _ protowire.Type, f field) error {
				switch n {
				case kvKey:
					k = string(f.bytes)
				case kvValue:
					val = string(f.bytes)
				}
				return nil
			}); err != nil {
				return err
			}
			if p.Exif == nil {
				p.Exif = make(map[string]string)
			}
			p.Exif[k] = val
		case photoLocation:
			loc := &models.Location{}
			if err := walk(v.bytes, func(n protowire.Number, _ protowire.Type, f field) error {
				switch n {
				case locLat:
					loc.Latitude = math.Float64frombits(f.fixed64)
				case locLon:
					loc.Longitude = math.Float64frombits(f.fixed64)
				case locAccuracy:
					loc.Accuracy = math.Float64frombits(f.fixed64)
				}
				return nil
			}); err != nil {
				return err
			}
			p.Location = loc
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func unmarshalMessage(data []byte) (models.Message, error) {
	var m models.Message
	err := walk(data, func(num protowire.Number, typ protowire.Type, v field) error {
		switch num {
		case msgID:
			m.ID = string(v.bytes)
		case msgSender:
			m.Sender = string(v.bytes)
		case msgText:
			m.Text = string(v.bytes)
		case msgSentAt:
			m.SentAt = decodeTime(v.varint)
		case msgPlatform:
			m.Platform = string(v.bytes)
		}
		return nil
	})
	return m, err
}

func unmarshalDocument(data []byte) (models.Document, error) {
	var d models.Document
	err := walk(data, func(num protowire.Number, typ protowire.Type, v field) error {
		switch num {
		case docName:
			d.Name = string(v.bytes)
		case docMime:
			d.MimeType = string(v.bytes)
		case docData:
			d.Data = append([]byte(nil), v.bytes...)
		}
		return nil
	})
	return d, err
}

func decodeTime(v uint64) time.Time {
	return time.Unix(0, protowire.DecodeZigZag(v)).UTC()
}

type field struct {
	varint  uint64
	fixed64 uint64
	bytes   []byte
}

// walk iterates over the top-level fields of data, skipping unknown types.
func walk(data []byte, fn func(num protowire.Number, typ protowire.Type, v field) error) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
		}
		data = data[n:]

		var v field
		switch typ {
		case protowire.VarintType:
			v.varint, n = protowire.ConsumeVarint(data)
		case protowire.Fixed64Type:
			v.fixed64, n = protowire.ConsumeFixed64(data)
		case protowire.BytesType:
			v.bytes, n = protowire.ConsumeBytes(data)
		default:
			n = protowire.ConsumeFieldValue(num, typ, data)
		}
		if n < 0 {
			return fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
		}
		data = data[n:]

		if err := fn(num, typ, v); err != nil {
			return err
		}
	}
	return nil
}
