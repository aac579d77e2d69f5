package roster_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/chama/internal/apperror"
	"github.com/MrJamesThe3rd/chama/internal/roster"
)

func TestParse(t *testing.T) {
	type testCase struct {
		name        string
		input       string
		want        []roster.Entry
		wantInvalid []roster.RowError
		wantErr     bool
	}

	tests := []testCase{
		{
			name: "CommaHeaderOrder",
			input: "phoneNumber,position,lastName,firstName\n" +
				"743159496,Chairperson,Mulei,Nichodemus\n" +
				"+254 705 185 868,Treasurer,Temea,Catherine\n",
			want: []roster.Entry{
				{FirstName: "Nichodemus", LastName: "Mulei", Position: "Chairperson", PhoneNumber: "0743159496"},
				{FirstName: "Catherine", LastName: "Temea", Position: "Treasurer", PhoneNumber: "0705185868"},
			},
		},
		{
			name:  "SemicolonAliasesNoPosition",
			input: "First Name;Surname;Mobile\nJanet;Mueni;0715200230\n\n",
			want: []roster.Entry{
				{FirstName: "Janet", LastName: "Mueni", Position: roster.DefaultPosition, PhoneNumber: "0715200230"},
			},
		},
		{
			name:  "TabSeparated",
			input: "first_name\tlast_name\tphone\nLydia\tMumbe\t718908013\n",
			want: []roster.Entry{
				{FirstName: "Lydia", LastName: "Mumbe", Position: roster.DefaultPosition, PhoneNumber: "0718908013"},
			},
		},
		{
			name: "InvalidRowsReported",
			input: "firstName,lastName,phoneNumber\n" +
				",Mutua,0768534718\n" +
				"Peter,Mutua,12345\n" +
				"Gideon,Mumo,715877501\n",
			want: []roster.Entry{
				{FirstName: "Gideon", LastName: "Mumo", Position: roster.DefaultPosition, PhoneNumber: "0715877501"},
			},
			wantInvalid: []roster.RowError{
				{Row: 2, Reason: "missing name"},
				{Row: 3, Reason: "invalid phone number"},
			},
		},
		{
			name:    "MissingColumns",
			input:   "name,phone\nJanet,0715200230\n",
			wantErr: true,
		},
		{
			name:    "Empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, invalid, err := roster.Parse(strings.NewReader(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantInvalid, invalid)
		})
	}
}

func TestParse_Windows1252(t *testing.T) {
	raw, err := charmap.Windows1252.NewEncoder().String("firstName,lastName,phoneNumber\nRenée,Nthenya,0706335309\n")
	require.NoError(t, err)

	got, _, err := roster.Parse(strings.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Renée", got[0].FirstName)
}

func TestParse_MissingColumnsNamed(t *testing.T) {
	_, _, err := roster.Parse(strings.NewReader("surname,role\nMulei,Member\n"))
	require.Error(t, err)
	assert.Equal(t, "roster header is missing columns: firstName, phoneNumber", apperror.Message(err))
}

func TestService_Import(t *testing.T) {
	// Makau and John Kioko share a number, as they do in the chama's register.
	const csv = "firstName,lastName,position,phoneNumber\n" +
		"Makau,Kioko,Member,713159821\n" +
		"John,Kioko,Member,0713159821\n" +
		"Esther,Mutie,Member,115243687\n" +
		"Abby,,Member,114661908\n"

	type testCase struct {
		name      string
		setupMock func(m *roster.MockRepository)
		want      *roster.Result
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "DuplicatesSkipped",
			setupMock: func(m *roster.MockRepository) {
				m.EXPECT().InsertMembers(gomock.Any(), gomock.Len(2)).
					DoAndReturn(func(_ context.Context, entries []roster.Entry) (int, error) {
						assert.Equal(t, "Makau", entries[0].FirstName)
						assert.Equal(t, "0115243687", entries[1].PhoneNumber)

						return 2, nil
					})
			},
			want: &roster.Result{Imported: 2, Skipped: 1, Invalid: []roster.RowError{{Row: 5, Reason: "missing name"}}},
		},
		{
			name: "AlreadyRegisteredSkipped",
			setupMock: func(m *roster.MockRepository) {
				m.EXPECT().InsertMembers(gomock.Any(), gomock.Len(2)).Return(0, nil)
			},
			want: &roster.Result{Imported: 0, Skipped: 3, Invalid: []roster.RowError{{Row: 5, Reason: "missing name"}}},
		},
		{
			name: "StoreFails",
			setupMock: func(m *roster.MockRepository) {
				m.EXPECT().InsertMembers(gomock.Any(), gomock.Any()).Return(0, errors.New("connection reset"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := roster.NewMockRepository(ctrl)
			tt.setupMock(repo)

			got, err := roster.NewService(repo).Import(context.Background(), strings.NewReader(csv))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Import_NothingValid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	got, err := roster.NewService(roster.NewMockRepository(ctrl)).
		Import(context.Background(), strings.NewReader("firstName,lastName,phoneNumber\nA,B,1\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, got.Imported)
	assert.Len(t, got.Invalid, 1)
}
