package domain

const (
	// DescriptorFileName is the name of the deployment descriptor looked up by discovery.
	DescriptorFileName = "serverless.yml"

	// AltDescriptorFileName is the alternative extension accepted by discovery.
	AltDescriptorFileName = "serverless.yaml"
)

// DescriptorFileNames returns the descriptor names in lookup order.
func DescriptorFileNames() []string {
	return []string{DescriptorFileName, AltDescriptorFileName}
}
