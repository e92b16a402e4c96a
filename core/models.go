package core

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	"github.com/go-crypt/x/blake2b"
)

// Record is a single financial transaction snapshot.
// Records are plain values and are never mutated once loaded; stores only
// copy, relocate and reorder them.
type Record struct {
	TransactionID            string
	Timestamp                string // Unparsed, as read from the source
	SenderAccount            string
	ReceiverAccount          string
	Amount                   float64
	TransactionType          string
	MerchantCategory         string
	Location                 string // Sort and group key
	DeviceUsed               string
	IsFraud                  string // Raw flag text, see IsFraudFlag
	FraudType                string
	TimeSinceLastTransaction string
	SpendingDeviation        string
	VelocityScore            string
	GeoAnomaly               string
	PaymentChannel           string
	IPAddress                string
	DeviceHash               string
}

// Field identifies one of the 18 record fields.
// The numeric order is the export order.
type Field int

const (
	FieldTransactionID Field = iota
	FieldTimestamp
	FieldSenderAccount
	FieldReceiverAccount
	FieldAmount
	FieldTransactionType
	FieldMerchantCategory
	FieldLocation
	FieldDeviceUsed
	FieldIsFraud
	FieldFraudType
	FieldTimeSinceLastTransaction
	FieldSpendingDeviation
	FieldVelocityScore
	FieldGeoAnomaly
	FieldPaymentChannel
	FieldIPAddress
	FieldDeviceHash

	// FieldCount is the number of record fields.
	FieldCount = int(FieldDeviceHash) + 1
)

var fieldNames = [FieldCount]string{
	"transaction_id",
	"timestamp",
	"sender_account",
	"receiver_account",
	"amount",
	"transaction_type",
	"merchant_category",
	"location",
	"device_used",
	"is_fraud",
	"fraud_type",
	"time_since_last_transaction",
	"spending_deviation",
	"velocity_score",
	"geo_anomaly",
	"payment_channel",
	"ip_address",
	"device_hash",
}

// Name returns the export key of the field.
func (f Field) Name() string {
	if !f.Valid() {
		return "field(" + strconv.Itoa(int(f)) + ")"
	}
	return fieldNames[f]
}

// String implements fmt.Stringer.
func (f Field) String() string {
	return f.Name()
}

// Valid reports whether f names one of the record fields.
func (f Field) Valid() bool {
	return f >= 0 && int(f) < FieldCount
}

// ParseField maps an export key back to its Field.
func ParseField(name string) (Field, error) {
	for i, n := range fieldNames {
		if n == name {
			return Field(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// FieldNames returns the export keys of all fields, in export order.
func FieldNames() []string {
	names := make([]string, FieldCount)
	copy(names, fieldNames[:])
	return names
}

// FormatAmount renders an amount the way it is compared and displayed.
// The shortest representation that parses back to the same float64 is used.
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

// Value returns the textual value of a field.
// Amount is rendered with FormatAmount. Unknown fields yield "".
func (r *Record) Value(f Field) string {
	switch f {
	case FieldTransactionID:
		return r.TransactionID
	case FieldTimestamp:
		return r.Timestamp
	case FieldSenderAccount:
		return r.SenderAccount
	case FieldReceiverAccount:
		return r.ReceiverAccount
	case FieldAmount:
		return FormatAmount(r.Amount)
	case FieldTransactionType:
		return r.TransactionType
	case FieldMerchantCategory:
		return r.MerchantCategory
	case FieldLocation:
		return r.Location
	case FieldDeviceUsed:
		return r.DeviceUsed
	case FieldIsFraud:
		return r.IsFraud
	case FieldFraudType:
		return r.FraudType
	case FieldTimeSinceLastTransaction:
		return r.TimeSinceLastTransaction
	case FieldSpendingDeviation:
		return r.SpendingDeviation
	case FieldVelocityScore:
		return r.VelocityScore
	case FieldGeoAnomaly:
		return r.GeoAnomaly
	case FieldPaymentChannel:
		return r.PaymentChannel
	case FieldIPAddress:
		return r.IPAddress
	case FieldDeviceHash:
		return r.DeviceHash
	}
	return ""
}

// Fingerprint is a content digest of a record.
type Fingerprint uint64

// Fingerprint computes a deterministic BLAKE2b digest over every field.
// Two records have the same fingerprint when all 18 fields are equal
// (amount compared by its IEEE-754 bits).
func (r *Record) Fingerprint() Fingerprint {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	var lenBuf [binary.MaxVarintLen64]byte
	for i := 0; i < FieldCount; i++ {
		f := Field(i)
		if f == FieldAmount {
			var amt [8]byte
			binary.LittleEndian.PutUint64(amt[:], math.Float64bits(r.Amount))
			h.Write(amt[:])
			continue
		}
		v := r.Value(f)
		n := binary.PutUvarint(lenBuf[:], uint64(len(v)))
		h.Write(lenBuf[:n])
		h.Write([]byte(v))
	}
	return Fingerprint(binary.LittleEndian.Uint64(h.Sum(nil)))
}
