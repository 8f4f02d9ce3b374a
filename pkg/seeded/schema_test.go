package seeded_test

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"
	"testing"

	"go.llib.dev/testcase"
	"go.llib.dev/testcase/assert"

	"go.llib.dev/recordstream/pkg/seeded"
)

type Owner struct {
	Name string
}

type Pet struct {
	Name  string
	Age   *int
	Owner *Owner
}

func OwnerDecoder() seeded.Decoder[Owner] {
	return seeded.DecoderFunc[Owner](func(dec *json.Decoder) (Owner, error) {
		var o Owner
		err := seeded.Schema{
			Name:    "Owner",
			Unknown: seeded.RejectUnknown,
			Fields: []seeded.Field{
				{Key: "name", Required: true, Decode: seeded.NotNull(&o.Name)},
			},
		}.DecodeJSON(dec)
		return o, err
	})
}

func TestSchema(t *testing.T) {
	s := testcase.NewSpec(t)

	var (
		document = testcase.Let[string](s, nil)
		unknown  = testcase.LetValue(s, seeded.DiscardUnknown)
	)
	act := func(t *testcase.T) (Pet, error) {
		var p Pet
		schema := seeded.Schema{
			Name:    "Pet",
			Unknown: unknown.Get(t),
			Fields: []seeded.Field{
				{Key: "name", Required: true, Decode: seeded.NotNull(&p.Name)},
				{Key: "age", Decode: seeded.OptionalText(&p.Age, strconv.Atoi)},
				{Key: "owner", Decode: seeded.Nullable(&p.Owner, OwnerDecoder())},
			},
		}
		err := schema.DecodeJSON(json.NewDecoder(strings.NewReader(document.Get(t))))
		return p, err
	}

	s.When("every field is present", func(s *testcase.Spec) {
		document.LetValue(s, `{"name":"Rex","age":"4","owner":{"name":"Ann"}}`)

		s.Then("the fields are decoded", func(t *testcase.T) {
			p, err := act(t)
			assert.NoError(t, err)
			assert.Equal(t, "Rex", p.Name)
			assert.NotNil(t, p.Age)
			assert.Equal(t, 4, *p.Age)
			assert.NotNil(t, p.Owner)
			assert.Equal(t, "Ann", p.Owner.Name)
		})
	})

	s.When("optional fields are absent or null", func(s *testcase.Spec) {
		document.LetValue(s, `{"owner":null,"name":"Rex"}`)

		s.Then("they are left as nil", func(t *testcase.T) {
			p, err := act(t)
			assert.NoError(t, err)
			assert.Equal(t, "Rex", p.Name)
			assert.Nil(t, p.Age)
			assert.Nil(t, p.Owner)
		})
	})

	s.When("a required field is missing", func(s *testcase.Spec) {
		document.LetValue(s, `{"age":"4"}`)

		s.Then("it fails with a missing field error", func(t *testcase.T) {
			_, err := act(t)
			assert.ErrorIs(t, seeded.ErrMissingField, err)
			assert.False(t, errors.Is(err, seeded.ErrMalformedField))

			var mf *seeded.MissingFieldError
			assert.True(t, errors.As(err, &mf))
			assert.Equal(t, "name", mf.Field)
			assert.Equal(t, "missing field: name (Pet)", err.Error())
		})
	})

	s.When("a nested required field is missing", func(s *testcase.Spec) {
		document.LetValue(s, `{"name":"Rex","owner":{}}`)

		s.Then("the error tells the path of the failing field", func(t *testcase.T) {
			_, err := act(t)
			assert.ErrorIs(t, seeded.ErrMissingField, err)
			assert.False(t, errors.Is(err, seeded.ErrMalformedField))
			assert.Equal(t, "Pet.owner: missing field: name (Owner)", err.Error())
		})
	})

	s.When("a field value is malformed", func(s *testcase.Spec) {
		document.LetValue(s, `{"name":"Rex","age":"four"}`)

		s.Then("it fails with a malformed field error", func(t *testcase.T) {
			_, err := act(t)
			assert.ErrorIs(t, seeded.ErrMalformedField, err)
			assert.ErrorIs(t, strconv.ErrSyntax, err)

			var fe *seeded.FieldError
			assert.True(t, errors.As(err, &fe))
			assert.Equal(t, "age", fe.Key)
			assert.Equal(t, "Pet", fe.Schema)
		})
	})

	s.When("a required field is null", func(s *testcase.Spec) {
		document.LetValue(s, `{"name":null}`)

		s.Then("it fails instead of storing the zero value", func(t *testcase.T) {
			_, err := act(t)
			assert.ErrorIs(t, seeded.ErrMalformedField, err)
			assert.ErrorIs(t, seeded.ErrUnexpectedNull, err)
			assert.Equal(t, "malformed field value Pet.name: unexpected null", err.Error())
		})
	})

	s.When("a nested required field is null", func(s *testcase.Spec) {
		document.LetValue(s, `{"name":"Rex","owner":{"name":null}}`)

		s.Then("the error points at the nested field", func(t *testcase.T) {
			_, err := act(t)
			assert.ErrorIs(t, seeded.ErrUnexpectedNull, err)
			assert.Equal(t, "malformed field value Pet.owner.name: unexpected null", err.Error())
		})
	})

	s.When("a field value has the wrong type", func(s *testcase.Spec) {
		document.LetValue(s, `{"name":42}`)

		s.Then("it fails with a malformed field error", func(t *testcase.T) {
			_, err := act(t)
			assert.ErrorIs(t, seeded.ErrMalformedField, err)

			var te *json.UnmarshalTypeError
			assert.True(t, errors.As(err, &te))
		})
	})

	s.When("the document has an unknown key", func(s *testcase.Spec) {
		document.LetValue(s, `{"name":"Rex","colour":{"deep":[1,2,3]}}`)

		s.Then("the value is discarded", func(t *testcase.T) {
			p, err := act(t)
			assert.NoError(t, err)
			assert.Equal(t, "Rex", p.Name)
		})

		s.And("unknown keys are rejected", func(s *testcase.Spec) {
			unknown.LetValue(s, seeded.RejectUnknown)

			s.Then("it fails with an unexpected key error", func(t *testcase.T) {
				_, err := act(t)
				assert.ErrorIs(t, seeded.ErrUnexpectedKey, err)

				var uk *seeded.UnexpectedKeyError
				assert.True(t, errors.As(err, &uk))
				assert.Equal(t, "colour", uk.Key)
			})
		})
	})

	s.When("a key is repeated", func(s *testcase.Spec) {
		document.LetValue(s, `{"name":"Rex","name":"Max"}`)

		s.Then("the last value wins", func(t *testcase.T) {
			p, err := act(t)
			assert.NoError(t, err)
			assert.Equal(t, "Max", p.Name)
		})
	})

	s.When("the document is truncated", func(s *testcase.Spec) {
		document.LetValue(s, `{"name":"Rex","owner":{"name":`)

		s.Then("the syntax failure is not reported as a malformed field", func(t *testcase.T) {
			_, err := act(t)
			assert.ErrorIs(t, io.ErrUnexpectedEOF, err)
			assert.False(t, errors.Is(err, seeded.ErrMalformedField))
		})
	})

	s.When("the document is not an object", func(s *testcase.Spec) {
		document.LetValue(s, `["name","Rex"]`)

		s.Then("it fails with an unexpected token error", func(t *testcase.T) {
			_, err := act(t)
			assert.ErrorIs(t, seeded.ErrUnexpectedToken, err)
		})
	})
}
