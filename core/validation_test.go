package core

import (
	"errors"
	"testing"
)

func TestValidateIngestionRequest(t *testing.T) {
	valid := func() *IngestionRequest {
		return &IngestionRequest{
			RunID:          "run1",
			PlatformID:     "imessage-001",
			PlatformName:   "iMessage",
			DocumentsField: "text",
		}
	}

	tests := []struct {
		name    string
		req     *IngestionRequest
		wantErr error
	}{
		{
			name:    "valid request",
			req:     valid(),
			wantErr: nil,
		},
		{
			name: "valid request with empty content",
			req: func() *IngestionRequest {
				r := valid()
				r.Content = []RawItem{}
				return r
			}(),
			wantErr: nil,
		},
		{
			name:    "nil request",
			req:     nil,
			wantErr: ErrInvalidRequest,
		},
		{
			name: "missing run id",
			req: func() *IngestionRequest {
				r := valid()
				r.RunID = ""
				return r
			}(),
			wantErr: ErrMissingField,
		},
		{
			name: "missing platform id",
			req: func() *IngestionRequest {
				r := valid()
				r.PlatformID = ""
				return r
			}(),
			wantErr: ErrMissingField,
		},
		{
			name: "missing platform name",
			req: func() *IngestionRequest {
				r := valid()
				r.PlatformName = ""
				return r
			}(),
			wantErr: ErrMissingField,
		},
		{
			name: "missing documents field",
			req: func() *IngestionRequest {
				r := valid()
				r.DocumentsField = ""
				return r
			}(),
			wantErr: ErrInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIngestionRequest(tt.req)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateIngestionRequest() error = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Errorf("ValidateIngestionRequest() error = nil, want %v", tt.wantErr)
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateIngestionRequest() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateStoredDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     *StoredDocument
		wantErr error
	}{
		{
			name: "valid document",
			doc: &StoredDocument{
				ID:       "run1-0",
				Metadata: Metadata{"name": StringValue("iMessage")},
			},
		},
		{
			name:    "nil document",
			doc:     nil,
			wantErr: ErrInvalidRequest,
		},
		{
			name:    "missing id",
			doc:     &StoredDocument{Metadata: Metadata{"name": StringValue("x")}},
			wantErr: ErrMissingField,
		},
		{
			name:    "missing name metadata",
			doc:     &StoredDocument{ID: "run1-0", Metadata: Metadata{}},
			wantErr: ErrMissingField,
		},
		{
			name: "oversized vector",
			doc: &StoredDocument{
				ID:       "run1-0",
				Vector:   make([]float32, MaxVectorDimensions+1),
				Metadata: Metadata{"name": StringValue("x")},
			},
			wantErr: ErrInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStoredDocument(tt.doc)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateStoredDocument() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateStoredDocument() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
