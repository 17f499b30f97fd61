package dataset

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xopraneet789/cycling-performance-analysis/internal/errors"
)

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cycling.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantDelim rune
		wantRows  int
	}{
		{
			name: "tab separated",
			content: "all_riders\trider_class\tstage\tpoints\tstage_class\n" +
				"Tadej Pogacar\tGC\t1\t50\tflat\n" +
				"Wout van Aert\tSprinter\t1\t80\tflat\n",
			wantDelim: '\t',
			wantRows:  2,
		},
		{
			name: "comma separated with quoted names",
			content: "all_riders,rider_class,stage,points,stage_class\n" +
				"\"Pogacar, Tadej\",GC,1,50,flat\n" +
				"\"van Aert, Wout\",Sprinter,2,80,hills\n" +
				"\"Vingegaard, Jonas\",GC,3,30,mount\n",
			wantDelim: ',',
			wantRows:  3,
		},
		{
			name: "semicolon separated with windows line endings",
			content: "all_riders;rider_class;stage;points;stage_class\r\n" +
				"R1;GC;1;50;flat\r\n" +
				"R2;Sprinter;1;80;flat\r\n",
			wantDelim: ';',
			wantRows:  2,
		},
		{
			name: "whitespace aligned",
			content: "all_riders  rider_class  stage  points  stage_class\n" +
				"R1          GC           1      50      flat\n" +
				"R2          Sprinter     1      80      flat\n",
			wantDelim: ' ',
			wantRows:  2,
		},
		{
			name: "columns in a different order",
			content: "points|stage_class|all_riders|stage|rider_class\n" +
				"50|flat|R1|1|GC\n",
			wantDelim: '|',
			wantRows:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Load(context.Background(), writeInput(t, tt.content))
			require.NoError(t, err)

			assert.Equal(t, tt.wantDelim, table.Delimiter())
			assert.Equal(t, tt.wantRows, table.Len())
			assert.ElementsMatch(t, ExpectedColumns, table.Columns())
		})
	}
}

func TestLoad_QuotedWhitespaceSeparated(t *testing.T) {
	content := "\"all_riders\" \"rider_class\" \"stage\" \"points\" \"stage_class\"\n" +
		"\"Tadej Pogacar\" \"GC\" \"X1\" 10 \"flat\"\n" +
		"\"Wout van Aert\"   \"Sprinter\" \"X2\" 80 \"flat\"\n" +
		"\"Jonas \"\"JV\"\" Vingegaard\" \"GC\" \"X3\" NA \"mount\"\n"

	table, err := Load(context.Background(), writeInput(t, content))
	require.NoError(t, err)

	assert.Equal(t, ' ', table.Delimiter())
	rows := table.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, Observation{Rider: "Tadej Pogacar", RiderClass: "GC", Stage: "X1", Points: 10, StageClass: "flat"}, rows[0])
	assert.Equal(t, "Wout van Aert", rows[1].Rider)
	assert.Equal(t, `Jonas "JV" Vingegaard`, rows[2].Rider)
	assert.True(t, math.IsNaN(rows[2].Points))
}

func TestLoad_FieldValues(t *testing.T) {
	content := "all_riders,rider_class,stage,points,stage_class\n" +
		"\"Pogacar, Tadej\", GC ,1,50.5,flat\n" +
		"R2,Sprinter,2,NA,hills\n" +
		"R3,,3,12,mount\n" +
		"R4,GC,4,7,null\n"

	table, err := Load(context.Background(), writeInput(t, content))
	require.NoError(t, err)

	rows := table.Rows()
	require.Len(t, rows, 4)

	assert.Equal(t, Observation{Rider: "Pogacar, Tadej", RiderClass: "GC", Stage: "1", Points: 50.5, StageClass: "flat"}, rows[0])
	assert.True(t, math.IsNaN(rows[1].Points))
	assert.Equal(t, "", rows[2].RiderClass)
	assert.Equal(t, "", rows[3].StageClass)

	assert.Equal(t, []string{"GC", "Sprinter"}, table.Levels(FactorRiderClass))
	assert.Equal(t, []string{"flat", "hills", "mount"}, table.Levels(FactorStageClass))

	assert.Len(t, table.Complete(FactorRiderClass), 2)
	assert.Len(t, table.Complete(FactorStageClass), 2)
	assert.Len(t, table.Complete(FactorRiderClass, FactorStageClass), 1)
	assert.Len(t, table.Complete(), 3)
	assert.Equal(t, []float64{50.5, 12, 7}, table.Points())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		missing bool
	}{
		{name: "missing file", missing: true},
		{name: "empty file", content: ""},
		{name: "blank lines only", content: "\n\n  \n"},
		{name: "header only", content: "all_riders,rider_class,stage,points,stage_class\n"},
		{name: "missing column", content: "all_riders,rider_class,stage,points\nR1,GC,1,5\n"},
		{name: "extra column", content: "all_riders,rider_class,stage,points,stage_class,team\nR1,GC,1,5,flat,UAE\n"},
		{name: "renamed column", content: "rider,rider_class,stage,points,stage_class\nR1,GC,1,5,flat\n"},
		{name: "non numeric points", content: "all_riders,rider_class,stage,points,stage_class\nR1,GC,1,five,flat\n"},
		{name: "infinite points", content: "all_riders,rider_class,stage,points,stage_class\nR1,GC,1,Inf,flat\n"},
		{name: "single column", content: "points\n1\n2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "absent.txt")
			if !tt.missing {
				path = writeInput(t, tt.content)
			}

			table, err := Load(context.Background(), path)
			require.Error(t, err)
			assert.Nil(t, table)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeInput), err.Error())
		})
	}
}

func TestLoad_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := writeInput(t, "all_riders,rider_class,stage,points,stage_class\nR1,GC,1,5,flat\n")
	_, err := Load(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTable_IsImmutable(t *testing.T) {
	table := NewTable([]Observation{{Rider: "R1", RiderClass: "GC", Points: 1, StageClass: "flat"}})

	rows := table.Rows()
	rows[0].Points = 99

	assert.Equal(t, 1.0, table.Rows()[0].Points)
}
