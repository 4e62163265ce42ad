package metawards

// MixDefault is the bundled default demographic mixer ("merge_core", spec
// section 4.6): after every subnet has computed its local FOI in the foi
// stage, sum WorkFOI/PlayFOI across subnets at each ward, weighted by each
// demographic's InteractionWeight, and write the merged value back into
// every subnet so advance_infprob sees the shared effective FOI. A custom
// mixer always has merge_core run before it unless it is merge_core itself;
// NewRunPlan (run.go) does that composition, not this function.
func MixDefault(args *StageArgs) error {
	if args.Stage != StageFOI {
		return nil
	}
	subnets := args.Networks.Subnets
	if len(subnets) < 2 {
		return nil
	}
	demos := args.Networks.Demographics.List

	nnodes := args.Networks.Overall.NNodes
	mergedWork := make([]float64, nnodes+1)
	mergedPlay := make([]float64, nnodes+1)

	for i, sub := range subnets {
		weight := demos[i].InteractionWeight
		if weight == 0 {
			weight = 1
		}
		for node := 1; node <= nnodes; node++ {
			mergedWork[node] += sub.Nodes[node].WorkFOI * weight
			mergedPlay[node] += sub.Nodes[node].PlayFOI * weight
		}
	}

	for _, sub := range subnets {
		for node := 1; node <= nnodes; node++ {
			sub.Nodes[node].WorkFOI = mergedWork[node]
			sub.Nodes[node].PlayFOI = mergedPlay[node]
		}
	}
	return nil
}
