package core

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ExportField is one labeled value of an exported record.
// Value holds a string for every field except amount, which holds a float64.
type ExportField struct {
	Name  string
	Value any
}

// ExportRecord is an ordered sequence of the 18 labeled fields of a record.
type ExportRecord []ExportField

// Export converts a record into its labeled, ordered form.
func (r *Record) Export() ExportRecord {
	out := make(ExportRecord, FieldCount)
	for i := 0; i < FieldCount; i++ {
		f := Field(i)
		if f == FieldAmount {
			out[i] = ExportField{Name: f.Name(), Value: r.Amount}
			continue
		}
		out[i] = ExportField{Name: f.Name(), Value: r.Value(f)}
	}
	return out
}

// Get returns the value labeled name, if present.
func (e ExportRecord) Get(name string) (any, bool) {
	for _, f := range e {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// MarshalJSON writes the fields as a JSON object, keeping their order.
func (e ExportRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range e {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// RecordFromExport rebuilds a record from its labeled fields.
// Every one of the 18 labels must be present; amount must be numeric and
// every other value a string.
func RecordFromExport(e ExportRecord) (Record, error) {
	var r Record
	for i := 0; i < FieldCount; i++ {
		f := Field(i)
		v, ok := e.Get(f.Name())
		if !ok {
			return Record{}, fmt.Errorf("%w: missing %s", ErrInvalidRecord, f.Name())
		}
		if f == FieldAmount {
			amount, err := toFloat(v)
			if err != nil {
				return Record{}, fmt.Errorf("%w: %s: %w", ErrInvalidRecord, f.Name(), err)
			}
			r.Amount = amount
			continue
		}
		s, ok := v.(string)
		if !ok {
			return Record{}, fmt.Errorf("%w: %s is %T, not string", ErrInvalidRecord, f.Name(), v)
		}
		r.set(f, s)
	}
	return r, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case json.Number:
		return n.Float64()
	}
	return 0, fmt.Errorf("value is %T, not a number", v)
}

// set assigns a string field. Amount is not handled here.
func (r *Record) set(f Field, v string) {
	switch f {
	case FieldTransactionID:
		r.TransactionID = v
	case FieldTimestamp:
		r.Timestamp = v
	case FieldSenderAccount:
		r.SenderAccount = v
	case FieldReceiverAccount:
		r.ReceiverAccount = v
	case FieldTransactionType:
		r.TransactionType = v
	case FieldMerchantCategory:
		r.MerchantCategory = v
	case FieldLocation:
		r.Location = v
	case FieldDeviceUsed:
		r.DeviceUsed = v
	case FieldIsFraud:
		r.IsFraud = v
	case FieldFraudType:
		r.FraudType = v
	case FieldTimeSinceLastTransaction:
		r.TimeSinceLastTransaction = v
	case FieldSpendingDeviation:
		r.SpendingDeviation = v
	case FieldVelocityScore:
		r.VelocityScore = v
	case FieldGeoAnomaly:
		r.GeoAnomaly = v
	case FieldPaymentChannel:
		r.PaymentChannel = v
	case FieldIPAddress:
		r.IPAddress = v
	case FieldDeviceHash:
		r.DeviceHash = v
	}
}

// RecordFromColumns builds a record from string columns in export order.
// The amount column must already be parsed; its text is ignored.
func RecordFromColumns(columns []string, amount float64) Record {
	var r Record
	for i := 0; i < FieldCount && i < len(columns); i++ {
		f := Field(i)
		if f == FieldAmount {
			continue
		}
		r.set(f, columns[i])
	}
	r.Amount = amount
	return r
}
