package auth

import (
	"regexp"

	"github.com/dmitrymomot/tournament-auth/pkg/schema"
	"github.com/dmitrymomot/tournament-auth/pkg/validator"
	"github.com/dmitrymomot/tournament-auth/svc/profile"
)

// Schema names registered in the engine returned by NewSchemaEngine.
const (
	SchemaRegister      = "register"
	SchemaLogin         = "login"
	SchemaUpdateProfile = "update_profile"
)

var (
	phonePattern = regexp.MustCompile(`^[0-9+\-\s()]{8,20}$`)

	organizationTypes = []string{"club", "federation", "association", "entreprise"}
	skillLevels       = []string{"debutant", "intermediaire", "confirme", "expert"}
)

// Keys of profileData that map to profile columns. Every other key is
// role-specific and lands in specialized_data.
var baseProfileKeys = []string{"first_name", "last_name", "display_name"}

func phone() *schema.StringNode {
	return schema.String().Pattern(phonePattern, "+33 6 12 34 56 78")
}

func baseProfileSchema() *schema.ObjectNode {
	return schema.Object(
		schema.Required("first_name", schema.String().Len(2, 50)),
		schema.Required("last_name", schema.String().Len(2, 50)),
		schema.Required("display_name", schema.String().Len(2, 100)),
	)
}

func organizerProfileSchema() *schema.ObjectNode {
	return baseProfileSchema().Extend(
		schema.Required("organization_name", schema.String().Len(2, 100)),
		schema.Required("organization_type", schema.Enum(organizationTypes...)),
		schema.Required("professional_email", schema.Email()),
		schema.Required("professional_phone", phone()),
		schema.Required("city", schema.String().Len(2, 100)),
		schema.Optional("website_url", schema.URI()),
	)
}

func playerProfileSchema() *schema.ObjectNode {
	return baseProfileSchema().Extend(
		schema.Required("sport_primary", schema.String().Max(100)),
		schema.Required("position_preferred", schema.String().Max(100)),
		schema.Required("skill_level", schema.Enum(skillLevels...)),
		schema.Required("date_of_birth", schema.Date().NotInFuture()),
		schema.Optional("height_cm", schema.Int().Min(100).Max(250)),
	)
}

func registerSchema() *schema.ObjectNode {
	roles := make([]string, 0, len(profile.Roles()))
	for _, r := range profile.Roles() {
		roles = append(roles, r.String())
	}
	return schema.Object(
		schema.Required("email", schema.Email()),
		schema.Required("password", schema.Password(validator.DefaultPasswordPolicy)),
		schema.Required("role", schema.Enum(roles...)),
		schema.Required("profileData", schema.Switch("role", baseProfileSchema(), map[string]schema.Node{
			profile.RoleOrganizer.String(): organizerProfileSchema(),
			profile.RolePlayer.String():    playerProfileSchema(),
		})),
	)
}

func loginSchema() *schema.ObjectNode {
	return schema.Object(
		schema.Required("email", schema.Email()),
		schema.Required("password", schema.String()),
	)
}

func updateProfileSchema() *schema.ObjectNode {
	return schema.Object(
		schema.Optional("display_name", schema.String().Len(2, 100)),
		schema.Optional("phone", phone()),
		schema.Optional("first_name", schema.String().Len(2, 50)),
		schema.Optional("last_name", schema.String().Len(2, 50)),
		schema.Optional("specialized_data", schema.Object(
			schema.Optional("organization_name", schema.String().Len(2, 100)),
			schema.Optional("website_url", schema.URI()),
			schema.Optional("professional_email", schema.Email()),
			schema.Optional("professional_phone", phone()),
			schema.Optional("sport_primary", schema.String().Max(100)),
			schema.Optional("position_preferred", schema.String().Max(100)),
			schema.Optional("skill_level", schema.Enum(skillLevels...)),
		)),
	)
}

// NewSchemaEngine registers the payload schemas of the auth routes.
func NewSchemaEngine() *schema.Engine {
	return schema.NewEngine(map[string]*schema.ObjectNode{
		SchemaRegister:      registerSchema(),
		SchemaLogin:         loginSchema(),
		SchemaUpdateProfile: updateProfileSchema(),
	})
}
