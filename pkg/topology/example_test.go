package topology_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/topodraw/pkg/topology"
)

func ExampleDiagram_Chain() {
	d, _ := topology.New("Autoscaling")
	elb, _ := d.Node("Load Balancer", "ELB")
	asg, _ := d.Node("ASG", "AutoScaling")
	i1, _ := d.Node("Instance 1", "EC2")
	i2, _ := d.Node("Instance 2", "EC2")

	// elb >> asg >> [i1, i2]
	_ = d.Chain(topology.Group(elb), topology.Group(asg), topology.Group(i1, i2))
	d.Close()

	for _, e := range d.Edges() {
		fmt.Printf("%s -> %s\n", e.From.Label(), e.To.Label())
	}
	// Output:
	// Load Balancer -> ASG
	// ASG -> Instance 1
	// ASG -> Instance 2
}

func ExampleDiagram_Cluster() {
	d, _ := topology.New("Nesting")

	var instance *topology.Node
	_ = d.Cluster("VPC", func(vpc *topology.Cluster) error {
		return vpc.Cluster("Availability Zone 1", func(az *topology.Cluster) error {
			return az.Cluster("Private Subnet 1", func(subnet *topology.Cluster) error {
				var err error
				instance, err = subnet.Node("EC2 Instance 1", "EC2")
				return err
			})
		})
	})

	fmt.Println(strings.Join(instance.Path(), " > "))
	// Output:
	// VPC > Availability Zone 1 > Private Subnet 1
}

func ExampleNew() {
	d, _ := topology.New("Load Balanced EC2 Autoscaling Application")
	fmt.Println(d.Filename())
	fmt.Println(d.Direction(), d.Format(), d.Show())
	// Output:
	// load_balanced_ec2_autoscaling_application
	// LR png true
}
