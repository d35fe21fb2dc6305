package object

import (
	"errors"
	"testing"
)

func TestValidateUpload(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		fileName string
		wantKind Kind
		wantExt  string
		wantErr  error
	}{
		{name: "pdf", fileName: "report.pdf", wantKind: KindPDF, wantExt: "pdf"},
		{name: "uppercase extension", fileName: "SCAN.PDF", wantKind: KindPDF, wantExt: "pdf"},
		{name: "png", fileName: "xray.png", wantKind: KindImage, wantExt: "png"},
		{name: "jpg", fileName: "xray.jpg", wantKind: KindImage, wantExt: "jpg"},
		{name: "jpeg mixed case", fileName: "photo.JpEg", wantKind: KindImage, wantExt: "jpeg"},
		{name: "exe rejected", fileName: "virus.exe", wantErr: ErrUnsupportedType},
		{name: "docx rejected", fileName: "letter.docx", wantErr: ErrUnsupportedType},
		{name: "no extension", fileName: "report", wantErr: ErrUnsupportedType},
		{name: "trailing dot", fileName: "report.", wantErr: ErrUnsupportedType},
		{name: "empty name", fileName: "", wantErr: ErrEmptyUpload},
		{name: "blank name", fileName: "   ", wantErr: ErrEmptyUpload},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			kind, ext, err := ValidateUpload(tt.fileName)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ValidateUpload(%q) err = %v, want %v", tt.fileName, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateUpload(%q) unexpected error: %v", tt.fileName, err)
			}
			if kind != tt.wantKind || ext != tt.wantExt {
				t.Fatalf("ValidateUpload(%q) = (%s, %s), want (%s, %s)", tt.fileName, kind, ext, tt.wantKind, tt.wantExt)
			}
		})
	}
}
