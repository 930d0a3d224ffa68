package checkin

// Qualitative descriptors for the 1-10 sliders, used when synthesizing the
// check-in message so the agent sees words as well as numbers.

var sleepDescriptors = map[int]string{
	1:  "Terrible -- barely slept at all",
	2:  "Very poor -- restless, broken sleep",
	3:  "Poor -- woke often, unrefreshed",
	4:  "Below average -- groggy start",
	5:  "Okay -- adequate but unremarkable",
	6:  "Decent -- a few interruptions",
	7:  "Good -- mostly solid, refreshing",
	8:  "Very good -- deep and restful",
	9:  "Excellent -- woke up recharged",
	10: "Amazing -- best sleep in ages",
}

var energyDescriptors = map[int]string{
	1:  "Exhausted -- running on empty",
	2:  "Drained -- everything feels heavy",
	3:  "Low -- dragging through tasks",
	4:  "Below par -- need frequent breaks",
	5:  "Moderate -- steady but unspectacular",
	6:  "Decent -- can push through most things",
	7:  "Good -- focused and capable",
	8:  "High -- motivated and sharp",
	9:  "Very high -- firing on all cylinders",
	10: "Energized -- unstoppable",
}

// SleepDescriptor maps a 1-10 sleep rating to its qualitative phrase.
func SleepDescriptor(n int) string {
	if d, ok := sleepDescriptors[n]; ok {
		return d
	}
	return "Unrated"
}

// EnergyDescriptor maps a 1-10 energy rating to its qualitative phrase.
func EnergyDescriptor(n int) string {
	if d, ok := energyDescriptors[n]; ok {
		return d
	}
	return "Unrated"
}
