package municipal

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tbourn/cleancity-backend/internal/domain"
)

// DefaultOrgInfo is the directory used when no file is configured.
func DefaultOrgInfo() domain.OrgInfo {
	return domain.OrgInfo{
		Name:    "City Municipal Office",
		Address: "123 Main Street, City Center",
		Phone:   "+1-234-567-8900",
		Email:   "municipality@city.gov",
		Hours:   "Mon-Fri: 8:00 AM - 5:00 PM",
		Departments: []domain.Department{
			{Name: "Waste Management", Phone: "+1-234-567-8901"},
			{Name: "Public Works", Phone: "+1-234-567-8902"},
			{Name: "Environmental Services", Phone: "+1-234-567-8903"},
		},
		Workers: []domain.Worker{
			{ID: 1, Name: "John Smith", Department: "Waste Management", Status: "available"},
			{ID: 2, Name: "Sarah Johnson", Department: "Public Works", Status: "available"},
			{ID: 3, Name: "Mike Davis", Department: "Environmental Services", Status: "on-duty"},
		},
	}
}

// LoadOrgInfo reads a YAML directory file. An empty path yields
// DefaultOrgInfo.
func LoadOrgInfo(path string) (domain.OrgInfo, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultOrgInfo(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.OrgInfo{}, fmt.Errorf("read org directory: %w", err)
	}
	var info domain.OrgInfo
	if err := yaml.Unmarshal(raw, &info); err != nil {
		return domain.OrgInfo{}, fmt.Errorf("parse org directory: %w", err)
	}
	if strings.TrimSpace(info.Name) == "" {
		return domain.OrgInfo{}, fmt.Errorf("org directory %s: name is required", path)
	}
	return info, nil
}
