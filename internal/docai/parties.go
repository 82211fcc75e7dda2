// Package docai resolves the parties extracted from trade documents
// against the company registry.
package docai

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/resolve-cli/internal/resolve"
)

// PartyRole names one slot of the fixed document-party schema.
type PartyRole string

// Document party roles, in resolution order.
const (
	RoleIssuer    PartyRole = "issuer"
	RoleVendor    PartyRole = "vendor"
	RoleBuyer     PartyRole = "buyer"
	RoleShipper   PartyRole = "shipper"
	RoleConsignee PartyRole = "consignee"
)

// Roles is the fixed schema order. Documents never carry other roles.
var Roles = []PartyRole{RoleIssuer, RoleVendor, RoleBuyer, RoleShipper, RoleConsignee}

// TransactionParties holds the raw party names extracted from one document.
// Empty fields mean the document did not name that party.
type TransactionParties struct {
	DocumentID string `json:"document_id"`
	Issuer     string `json:"issuer,omitempty"`
	Vendor     string `json:"vendor,omitempty"`
	Buyer      string `json:"buyer,omitempty"`
	Shipper    string `json:"shipper,omitempty"`
	Consignee  string `json:"consignee,omitempty"`
}

// Name returns the raw name for the given role.
func (p TransactionParties) Name(role PartyRole) string {
	switch role {
	case RoleIssuer:
		return p.Issuer
	case RoleVendor:
		return p.Vendor
	case RoleBuyer:
		return p.Buyer
	case RoleShipper:
		return p.Shipper
	case RoleConsignee:
		return p.Consignee
	}
	return ""
}

// Extractor produces the parties of one document. Implementations wrap
// whatever OCR or document-AI backend feeds the pipeline.
type Extractor interface {
	ExtractParties(ctx context.Context, documentID string) (TransactionParties, error)
}

// ResolvedParty is the outcome for one role of one document.
type ResolvedParty struct {
	Role   PartyRole               `json:"role"`
	Name   string                  `json:"name"`
	Result *resolve.IdentifyResult `json:"result,omitempty"`
	Err    error                   `json:"-"`
}

// Resolver runs extracted party names through identify-or-create.
type Resolver struct {
	creator *resolve.AutoCreator
}

// NewResolver creates a Resolver on the given auto-creator.
func NewResolver(creator *resolve.AutoCreator) *Resolver {
	return &Resolver{creator: creator}
}

// ResolveParties identifies or creates a company for every named role of
// the document, in schema order. A failure on one role is recorded on its
// entry and logged; the remaining roles still resolve. Roles the document
// leaves empty are skipped entirely.
func (r *Resolver) ResolveParties(ctx context.Context, parties TransactionParties, createdByID string) []ResolvedParty {
	var resolved []ResolvedParty

	for _, role := range Roles {
		name := strings.TrimSpace(parties.Name(role))
		if name == "" {
			continue
		}

		res, err := r.creator.IdentifyOrCreate(ctx,
			resolve.CreateInfo{Name: name},
			resolve.CreateContext{
				CreatedByID:         createdByID,
				FirstSeenDocumentID: parties.DocumentID,
			},
		)
		if err != nil {
			zap.L().Warn("docai: party resolution failed",
				zap.String("document_id", parties.DocumentID),
				zap.String("role", string(role)),
				zap.String("name", name),
				zap.Error(err),
			)
			resolved = append(resolved, ResolvedParty{Role: role, Name: name, Err: err})
			continue
		}

		resolved = append(resolved, ResolvedParty{Role: role, Name: name, Result: res})
	}

	return resolved
}
